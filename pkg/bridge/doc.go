// Package bridge exchanges envelopes with the engine over a single ordered
// transport.
//
// Two kinds of traffic share the channel:
//
//   - Requests sent with a response callback. The engine answers each
//     request with exactly one reply (Reply=true). By default replies are
//     paired with requests in send order; with WithCorrelationIDs the bridge
//     stamps an id on each request and pairs echoed ids first.
//   - Messages the engine sends on its own. Listeners registered with a type
//     pattern ("set/*") receive every matching message, in registration
//     order. All listeners for one message finish before the next message
//     is dispatched.
//
// Run reads frames on its own goroutine and posts every dispatch onto the
// configured eventloop.Poster, so callbacks and listeners run on the same
// logical thread as the reactive model.
package bridge
