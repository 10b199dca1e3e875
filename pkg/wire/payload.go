package wire

import (
	"fmt"
	"strings"
)

// Message types known to the editor.
const (
	TypeAssetsLists     = "assets/lists"
	TypeSceneItemDelete = "scene-item/delete"
	TypeEngineReady     = "engine/ready"

	// SetPrefix starts every keypath patch type ("set/ui.zoom").
	SetPrefix = "set/"

	// PatternSet matches every keypath patch.
	PatternSet = "set/*"
)

// Payload is one of the typed message variants returned by Decode.
type Payload interface {
	// MessageType returns the envelope type the payload travels under.
	MessageType() string
}

// AssetInfo describes one logical asset and the files backing it.
type AssetInfo struct {
	Name      string   `json:"name" yaml:"name"`
	ConstName string   `json:"constName" yaml:"constName"`
	Paths     []string `json:"paths" yaml:"paths"`
}

// AssetsListsRequest asks the engine to classify a flat file list.
type AssetsListsRequest struct {
	List []string `json:"list"`
}

// MessageType implements Payload.
func (AssetsListsRequest) MessageType() string { return TypeAssetsLists }

// AssetsListsResponse is the engine's classification of a file list.
// AllByName and AllDirsByName map names to path lists ([]string values),
// in the order the engine sent them.
type AssetsListsResponse struct {
	Images        []AssetInfo `json:"images"`
	Texts         []AssetInfo `json:"texts"`
	Sounds        []AssetInfo `json:"sounds"`
	Fonts         []AssetInfo `json:"fonts"`
	All           []string    `json:"all"`
	AllDirs       []string    `json:"allDirs"`
	AllByName     *OrderedMap `json:"allByName"`
	AllDirsByName *OrderedMap `json:"allDirsByName"`
}

// MessageType implements Payload.
func (AssetsListsResponse) MessageType() string { return TypeAssetsLists }

// SetPatch writes Value at Keypath.
type SetPatch struct {
	Keypath string
	Value   any
}

// MessageType implements Payload.
func (p SetPatch) MessageType() string { return SetPrefix + p.Keypath }

// SceneItemDelete removes the scene item called Name.
type SceneItemDelete struct {
	Name string `json:"name"`
}

// MessageType implements Payload.
func (SceneItemDelete) MessageType() string { return TypeSceneItemDelete }

// EngineReady announces that the engine can answer requests.
type EngineReady struct{}

// MessageType implements Payload.
func (EngineReady) MessageType() string { return TypeEngineReady }

// Unrecognized carries any message type the editor does not know.
type Unrecognized struct {
	Type  string
	Value any
}

// MessageType implements Payload.
func (u Unrecognized) MessageType() string { return u.Type }

// NewEnvelope wraps p in an envelope.
func NewEnvelope(p Payload) Envelope {
	switch v := p.(type) {
	case SetPatch:
		return Envelope{Type: v.MessageType(), Value: v.Value}
	case Unrecognized:
		return Envelope{Type: v.Type, Value: v.Value}
	case EngineReady:
		return Envelope{Type: v.MessageType()}
	default:
		return Envelope{Type: p.MessageType(), Value: p}
	}
}

// Decode returns the typed payload of env.
func Decode(env Envelope) (Payload, error) {
	switch {
	case env.Type == TypeAssetsLists && env.Reply:
		return decodeAssetsListsResponse(env.Value)
	case env.Type == TypeAssetsLists:
		return decodeAssetsListsRequest(env.Value)
	case env.Type == TypeSceneItemDelete:
		return decodeSceneItemDelete(env.Value)
	case env.Type == TypeEngineReady:
		return EngineReady{}, nil
	case strings.HasPrefix(env.Type, SetPrefix) && MatchType(PatternSet, env.Type):
		return SetPatch{Keypath: strings.TrimPrefix(env.Type, SetPrefix), Value: env.Value}, nil
	default:
		return Unrecognized{Type: env.Type, Value: env.Value}, nil
	}
}

func decodeAssetsListsRequest(v any) (AssetsListsRequest, error) {
	switch r := v.(type) {
	case AssetsListsRequest:
		return r, nil
	case *AssetsListsRequest:
		return *r, nil
	}
	list, _ := Field(v, "list")
	strs, err := StringList(list)
	if err != nil {
		return AssetsListsRequest{}, fmt.Errorf("%s list: %w", TypeAssetsLists, err)
	}
	return AssetsListsRequest{List: strs}, nil
}

func decodeAssetsListsResponse(v any) (AssetsListsResponse, error) {
	switch r := v.(type) {
	case AssetsListsResponse:
		return r, nil
	case *AssetsListsResponse:
		return *r, nil
	}
	if !IsObject(v) {
		return AssetsListsResponse{}, fmt.Errorf("%w: %s reply is %T", ErrInvalidValue, TypeAssetsLists, v)
	}

	var resp AssetsListsResponse
	var err error
	catalogs := []struct {
		key string
		dst *[]AssetInfo
	}{
		{"images", &resp.Images},
		{"texts", &resp.Texts},
		{"sounds", &resp.Sounds},
		{"fonts", &resp.Fonts},
	}
	for _, c := range catalogs {
		raw, _ := Field(v, c.key)
		if *c.dst, err = assetInfos(raw); err != nil {
			return AssetsListsResponse{}, fmt.Errorf("%s %s: %w", TypeAssetsLists, c.key, err)
		}
	}

	raw, _ := Field(v, "all")
	if resp.All, err = StringList(raw); err != nil {
		return AssetsListsResponse{}, fmt.Errorf("%s all: %w", TypeAssetsLists, err)
	}
	raw, _ = Field(v, "allDirs")
	if resp.AllDirs, err = StringList(raw); err != nil {
		return AssetsListsResponse{}, fmt.Errorf("%s allDirs: %w", TypeAssetsLists, err)
	}
	raw, _ = Field(v, "allByName")
	if resp.AllByName, err = pathIndex(raw); err != nil {
		return AssetsListsResponse{}, fmt.Errorf("%s allByName: %w", TypeAssetsLists, err)
	}
	raw, _ = Field(v, "allDirsByName")
	if resp.AllDirsByName, err = pathIndex(raw); err != nil {
		return AssetsListsResponse{}, fmt.Errorf("%s allDirsByName: %w", TypeAssetsLists, err)
	}
	return resp, nil
}

func decodeSceneItemDelete(v any) (SceneItemDelete, error) {
	switch r := v.(type) {
	case SceneItemDelete:
		return r, nil
	case *SceneItemDelete:
		return *r, nil
	}
	raw, _ := Field(v, "name")
	name, ok := raw.(string)
	if !ok {
		return SceneItemDelete{}, fmt.Errorf("%w: %s name is %T", ErrInvalidValue, TypeSceneItemDelete, raw)
	}
	return SceneItemDelete{Name: name}, nil
}

// IsObject reports whether v is a decoded object.
func IsObject(v any) bool {
	switch m := v.(type) {
	case *OrderedMap:
		return m != nil
	case map[string]any:
		return true
	default:
		return false
	}
}

// Field returns key of a decoded object.
func Field(v any, key string) (any, bool) {
	switch m := v.(type) {
	case *OrderedMap:
		return m.Get(key)
	case map[string]any:
		x, ok := m[key]
		return x, ok
	default:
		return nil, false
	}
}

// Entries returns the entries of a decoded object in order. Plain maps are
// returned in sorted key order.
func Entries(v any) (keys []string, values []any, ok bool) {
	var om *OrderedMap
	switch m := v.(type) {
	case *OrderedMap:
		om = m
	case map[string]any:
		om = OrderedMapFrom(m)
	default:
		return nil, nil, false
	}
	om.Range(func(k string, x any) bool {
		keys = append(keys, k)
		values = append(values, x)
		return true
	})
	return keys, values, true
}

// StringList converts a decoded list of strings. nil yields nil.
func StringList(v any) ([]string, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return l, nil
	case []any:
		out := make([]string, 0, len(l))
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T", ErrInvalidValue, i, e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a list", ErrInvalidValue, v)
	}
}

func assetInfos(v any) ([]AssetInfo, error) {
	switch l := v.(type) {
	case nil:
		return []AssetInfo{}, nil
	case []AssetInfo:
		return l, nil
	case []any:
		out := make([]AssetInfo, 0, len(l))
		for i, e := range l {
			if !IsObject(e) {
				return nil, fmt.Errorf("%w: entry %d is %T", ErrInvalidValue, i, e)
			}
			name, _ := Field(e, "name")
			constName, _ := Field(e, "constName")
			info := AssetInfo{}
			info.Name, _ = name.(string)
			info.ConstName, _ = constName.(string)
			paths, _ := Field(e, "paths")
			var err error
			if info.Paths, err = StringList(paths); err != nil {
				return nil, fmt.Errorf("entry %d paths: %w", i, err)
			}
			out = append(out, info)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a list", ErrInvalidValue, v)
	}
}

// pathIndex converts a decoded name -> path list object into an ordered map
// with []string values.
func pathIndex(v any) (*OrderedMap, error) {
	if v == nil {
		return NewOrderedMap(), nil
	}
	if om, ok := v.(*OrderedMap); ok && om == nil {
		return NewOrderedMap(), nil
	}
	keys, values, ok := Entries(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an object", ErrInvalidValue, v)
	}
	out := NewOrderedMap()
	for i, k := range keys {
		paths, err := StringList(values[i])
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		out.Set(k, paths)
	}
	return out, nil
}
