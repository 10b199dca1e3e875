package service

import (
	"github.com/ceramic-editor/editor-sync/pkg/bridge"
	"github.com/ceramic-editor/editor-sync/pkg/files"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// FileLister inspects the assets directory.
type FileLister interface {
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool

	// FlatDirectory returns every file below root, relative to root.
	FlatDirectory(root string) ([]string, error)
}

// Compile-time check: *files.Lister implements FileLister.
var _ FileLister = (*files.Lister)(nil)

// HostShell receives the current assets path as a side effect of the
// asset autorun.
type HostShell interface {
	SetAssetsPath(path string)
}

// DirectoryChooser asks the user for a directory. ok is false when the user
// cancelled.
type DirectoryChooser interface {
	ChooseDirectory() (path string, ok bool)
}

// Messenger is the part of the bridge the synchronizer uses.
type Messenger interface {
	Send(env wire.Envelope, onResponse bridge.ResponseFunc) error
	Listen(pattern string, handler bridge.Handler) *bridge.Subscription
}

// Compile-time check: *bridge.Bridge implements Messenger.
var _ Messenger = (*bridge.Bridge)(nil)
