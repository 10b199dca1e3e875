package discovery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeEngineTXT creates TXT records for an engine.
func EncodeEngineTXT(info *EngineInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	version := info.Version
	if version == 0 {
		version = ProtocolVersion
	}
	txt[TXTKeyVersion] = strconv.Itoa(version)

	if info.Codec != "" {
		txt[TXTKeyCodec] = info.Codec
	}
	if info.Path != "" && info.Path != "/" {
		txt[TXTKeyPath] = info.Path
	}
	return txt
}

// DecodeEngineTXT parses engine TXT records. A missing codec means "json".
func DecodeEngineTXT(txt TXTRecordMap) (*EngineInfo, error) {
	info := &EngineInfo{Codec: "json", Path: "/"}

	vStr, ok := txt[TXTKeyVersion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	v, err := strconv.Atoi(vStr)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, vStr)
	}
	info.Version = v

	if codec := txt[TXTKeyCodec]; codec != "" {
		info.Codec = codec
	}
	if path := txt[TXTKeyPath]; path != "" {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		info.Path = path
	}
	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
