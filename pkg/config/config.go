// Package config loads and validates the human-authored bus
// configuration that the compiler turns into hardcoded artifacts.
//
// The input tree has four top-level collections: clients, groups, bus
// and defaults. It may be authored in JSON, YAML or TOML; the format is
// picked from the file extension. Optional parameters are pointer-typed
// so that default injection can distinguish "absent" from "set to zero"
// and never overwrites a value the author supplied.
//
// Validation inspects the collections in the order they appear in the
// file: the first client must carry sid 1 and the last client the sid
// equal to the client count (and likewise gid 0 and gid count-1 for
// groups). Inputs are therefore expected to already be listed in
// ascending sid/gid order; sorting only happens after this check.
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/hazelnet-bus/hzlconfig/pkg/record"
)

// ValidationError reports a structural or invariant violation in the
// input configuration. It always fails the whole compilation; nothing
// is auto-corrected.
type ValidationError struct {
	Entity string
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Entity == "" {
		return "invalid configuration: " + e.Msg
	}
	return "invalid configuration: " + e.Entity + ": " + e.Msg
}

// Client is one bus participant as authored, plus the decoded long-term
// key once the tree is validated.
type Client struct {
	SID                   int     `json:"sid" yaml:"sid" toml:"sid"`
	Nickname              string  `json:"nickname" yaml:"nickname" toml:"nickname"`
	LTK                   string  `json:"ltk" yaml:"ltk" toml:"ltk"`
	TimeoutReqToResMillis *uint32 `json:"timeoutReqToResMillis" yaml:"timeoutReqToResMillis" toml:"timeoutReqToResMillis"`
	HeaderType            *uint32 `json:"headerType" yaml:"headerType" toml:"headerType"`

	// LTKBytes is the raw 16-byte key decoded from LTK by validation.
	LTKBytes []byte `json:"-" yaml:"-" toml:"-"`
}

// Group is one message group as authored. Clients lists the member sids;
// the bitmap is derived from it during validation.
type Group struct {
	GID                                int     `json:"gid" yaml:"gid" toml:"gid"`
	Clients                            []int   `json:"clients" yaml:"clients" toml:"clients"`
	MaxCtrnonceDelayMsgs               *uint32 `json:"maxCtrnonceDelayMsgs" yaml:"maxCtrnonceDelayMsgs" toml:"maxCtrnonceDelayMsgs"`
	CtrNonceUpperLimit                 *uint32 `json:"ctrNonceUpperLimit" yaml:"ctrNonceUpperLimit" toml:"ctrNonceUpperLimit"`
	SessionDurationMillis              *uint32 `json:"sessionDurationMillis" yaml:"sessionDurationMillis" toml:"sessionDurationMillis"`
	DelayBetweenRenNotificationsMillis *uint32 `json:"delayBetweenRenNotificationsMillis" yaml:"delayBetweenRenNotificationsMillis" toml:"delayBetweenRenNotificationsMillis"`
	MaxSilenceIntervalMillis           *uint32 `json:"maxSilenceIntervalMillis" yaml:"maxSilenceIntervalMillis" toml:"maxSilenceIntervalMillis"`
	SessionRenewalDurationMillis       *uint32 `json:"sessionRenewalDurationMillis" yaml:"sessionRenewalDurationMillis" toml:"sessionRenewalDurationMillis"`

	// ClientSidsInGroupBitmap has bit (sid-1) set for every member sid.
	// Computed during validation; gid 0 is always all ones.
	ClientSidsInGroupBitmap uint32 `json:"-" yaml:"-" toml:"-"`
}

// Bus holds the global bus settings applied to every client.
type Bus struct {
	HeaderType *uint32 `json:"headerType" yaml:"headerType" toml:"headerType"`
}

// Defaults holds fallback values injected wherever a client or group
// leaves the corresponding parameter unset.
type Defaults struct {
	TimeoutReqToResMillis              *uint32 `json:"timeoutReqToResMillis" yaml:"timeoutReqToResMillis" toml:"timeoutReqToResMillis"`
	MaxCtrnonceDelayMsgs               *uint32 `json:"maxCtrnonceDelayMsgs" yaml:"maxCtrnonceDelayMsgs" toml:"maxCtrnonceDelayMsgs"`
	CtrNonceUpperLimit                 *uint32 `json:"ctrNonceUpperLimit" yaml:"ctrNonceUpperLimit" toml:"ctrNonceUpperLimit"`
	SessionDurationMillis              *uint32 `json:"sessionDurationMillis" yaml:"sessionDurationMillis" toml:"sessionDurationMillis"`
	DelayBetweenRenNotificationsMillis *uint32 `json:"delayBetweenRenNotificationsMillis" yaml:"delayBetweenRenNotificationsMillis" toml:"delayBetweenRenNotificationsMillis"`
	MaxSilenceIntervalMillis           *uint32 `json:"maxSilenceIntervalMillis" yaml:"maxSilenceIntervalMillis" toml:"maxSilenceIntervalMillis"`
	SessionRenewalDurationMillis       *uint32 `json:"sessionRenewalDurationMillis" yaml:"sessionRenewalDurationMillis" toml:"sessionRenewalDurationMillis"`
}

// Tree is the whole configuration. After Parse returns it is validated,
// defaulted, sorted by sid/gid and annotated with bitmaps and decoded
// keys, and must be treated as immutable.
type Tree struct {
	Clients  []*Client `json:"clients" yaml:"clients" toml:"clients"`
	Groups   []*Group  `json:"groups" yaml:"groups" toml:"groups"`
	Bus      *Bus      `json:"bus" yaml:"bus" toml:"bus"`
	Defaults *Defaults `json:"defaults" yaml:"defaults" toml:"defaults"`
}

// Format identifies the input encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

// FormatForPath picks the input format from the file extension.
// Anything that is not .yaml/.yml/.toml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Parse decodes and validates a configuration tree.
func Parse(data []byte, format Format) (*Tree, error) {
	var t Tree
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &t)
	case FormatTOML:
		err = toml.Unmarshal(data, &t)
	default:
		err = json.Unmarshal(data, &t)
	}
	if err != nil {
		return nil, &ValidationError{Msg: "cannot parse input: " + err.Error()}
	}
	if err := t.normalize(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseFile reads and parses the configuration at path.
func ParseFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return Parse(data, FormatForPath(path))
}

// LTKFromString decodes a 32-hex-character long-term key string into its
// 16 raw bytes.
func LTKFromString(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("ltk is not a valid hex string: %w", err)
	}
	if len(key) != record.LTKSize {
		return nil, fmt.Errorf("ltk decodes to %d bytes, want %d", len(key), record.LTKSize)
	}
	return key, nil
}
