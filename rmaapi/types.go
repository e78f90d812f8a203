package rmaapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InstanceStatus is one analyzed (or analyzing) redis instance.  The times
// are formatted by the backend as "2006-01-02 15:04:05".
type InstanceStatus struct {
	Host             string `json:"host"`
	AnalyzeStartTime string `json:"analyze_start_time"`
	AnalyzeEndTime   string `json:"analyze_end_time"`
	IsFinish         bool   `json:"is_finish"`
}

// AnalyzeRequest starts a scan of one redis instance.
type AnalyzeRequest struct {
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	Password string `json:"password,omitempty"`

	// Count is the SCAN batch size
	Count uint `json:"count,omitempty"`

	// Limit caps the number of keys scanned.  Zero means no limit.
	Limit uint64 `json:"limit,omitempty"`

	// Match is the SCAN MATCH pattern
	Match string `json:"match,omitempty"`

	// Types restricts the analysis to these key types.  Empty means all.
	Types []string `json:"types,omitempty"`

	// Separators are the bytes that split keys into tree segments, e.g. ":".
	// The backend rejects an empty set.
	Separators []byte `json:"separators"`

	Cluster bool `json:"cluster,omitempty"`

	// Pause is the delay between SCAN batches
	Pause time.Duration `json:"pause,omitempty"`
}

// SortVar selects the ordering of an expanded key tree layer.  Nodes are
// returned largest first.
type SortVar int32

const (
	SortByTotalSize SortVar = 1
	SortByKeyNum    SortVar = 2
	SortByChildNum  SortVar = 3
)

// DefaultSortVar is used when no ordering is requested.
const DefaultSortVar = SortByTotalSize

var sortVarNames = map[SortVar]string{
	SortByTotalSize: "size",
	SortByKeyNum:    "keys",
	SortByChildNum:  "children",
}

// String returns the query parameter name of this ordering.
func (sv SortVar) String() string {
	if name, ok := sortVarNames[sv]; ok {
		return name
	}

	return strconv.Itoa(int(sv))
}

// ParseSortVar accepts either a name ("size", "keys", "children") or its
// numeric value.  The empty string yields DefaultSortVar.
func ParseSortVar(v string) (SortVar, error) {
	if len(v) == 0 {
		return DefaultSortVar, nil
	}

	for sv, name := range sortVarNames {
		if strings.EqualFold(v, name) {
			return sv, nil
		}
	}

	n, err := strconv.ParseInt(v, 10, 32)
	if err == nil {
		if _, ok := sortVarNames[SortVar(n)]; ok {
			return SortVar(n), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidSortVar, v)
}

// ExpandRequest asks for one layer of the key tree below KeyPrefix.
type ExpandRequest struct {
	Host      string  `json:"host"`
	KeyType   string  `json:"key_type"`
	KeyPrefix string  `json:"key_prefix"`
	NumLimit  int64   `json:"num_limit"`
	SortVar   SortVar `json:"sort_var"`
}

// NodeInfo is one segment of the key tree.  A leaf's Segment is the full key.
type NodeInfo struct {
	Segment   string `json:"segment"`
	KeyNum    int64  `json:"key_num"`
	TotalSize int64  `json:"total_size"`
	ChildNum  int32  `json:"child_num"`
}

// Leaf reports whether this node is a complete key rather than a prefix.
func (ni NodeInfo) Leaf() bool {
	return ni.ChildNum == 0
}

// ZSetItem is one member of a sorted set value.
type ZSetItem struct {
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}

// KeyInfo is a sample of a key's value.  The shape of Value depends on Type;
// use the accessor matching Type to decode it.
type KeyInfo struct {
	Key   string          `json:"key"`
	Type  string          `json:"type"`
	TTL   int64           `json:"ttl"`
	Value json.RawMessage `json:"value"`
}

func (ki KeyInfo) decode(expected string, v any) error {
	if ki.Type != expected {
		return fmt.Errorf("%w: key %q is a %s, not a %s", ErrWrongKeyType, ki.Key, ki.Type, expected)
	}

	if len(ki.Value) == 0 {
		return nil
	}

	return json.Unmarshal(ki.Value, v)
}

// StringValue decodes the value of a string key.
func (ki KeyInfo) StringValue() (s string, err error) {
	err = ki.decode("string", &s)
	return
}

// ListValue decodes the sampled elements of a list key.
func (ki KeyInfo) ListValue() (l []string, err error) {
	err = ki.decode("list", &l)
	return
}

// SetValue decodes the sampled members of a set key.
func (ki KeyInfo) SetValue() (s []string, err error) {
	err = ki.decode("set", &s)
	return
}

// HashValue decodes the sampled fields of a hash key.
func (ki KeyInfo) HashValue() (h map[string]string, err error) {
	err = ki.decode("hash", &h)
	return
}

// ZSetValue decodes the sampled members of a sorted set key.
func (ki KeyInfo) ZSetValue() (z []ZSetItem, err error) {
	err = ki.decode("zset", &z)
	return
}
