// Package snapshot encodes row images for the audit trail as JSON objects
// with a stable key order, so identical rows always produce identical bytes.
package snapshot

import (
    "bytes"
    "encoding/json"
    "errors"
    "sort"
)

// Snapshot is a flat JSON object describing a row at one point in time.
type Snapshot map[string]any

// MaxTotalJSON bounds the encoded size of a snapshot.
const MaxTotalJSON = 64 << 10

// Of converts any JSON-encodable value (usually an entity struct) into a Snapshot.
func Of(v any) (Snapshot, error) {
    b, err := json.Marshal(v)
    if err != nil { return nil, err }
    return Parse(b)
}

// Parse decodes a JSON object. Numbers keep their literal form.
func Parse(b []byte) (Snapshot, error) {
    if len(b) == 0 || bytes.Equal(b, []byte("null")) { return Snapshot{}, nil }
    dec := json.NewDecoder(bytes.NewReader(b))
    dec.UseNumber()
    var m map[string]any
    if err := dec.Decode(&m); err != nil { return nil, err }
    if m == nil { return Snapshot{}, nil }
    return Snapshot(m), nil
}

func (s Snapshot) Clone() Snapshot {
    out := make(Snapshot, len(s))
    for k, v := range s { out[k] = v }
    return out
}

func (s Snapshot) Get(k string) (any, bool) { v, ok := s[k]; return v, ok }

func (s Snapshot) Set(k string, v any) {
    if k == "" { return }
    s[k] = v
}

func (s Snapshot) Del(k string) { delete(s, k) }

// Validate enforces the size limit.
func (s Snapshot) Validate() error {
    b, err := s.MarshalStableJSON()
    if err != nil { return err }
    if len(b) > MaxTotalJSON { return errors.New("snapshot exceeds max json size") }
    return nil
}

// MarshalStableJSON returns a deterministic JSON representation with keys sorted.
func (s Snapshot) MarshalStableJSON() ([]byte, error) {
    if len(s) == 0 { return []byte("{}"), nil }
    keys := s.keys()
    buf := &bytes.Buffer{}
    buf.WriteByte('{')
    for i, k := range keys {
        kb, _ := json.Marshal(k)
        vb, err := json.Marshal(s[k])
        if err != nil { return nil, err }
        buf.Write(kb)
        buf.WriteByte(':')
        buf.Write(vb)
        if i < len(keys)-1 { buf.WriteByte(',') }
    }
    buf.WriteByte('}')
    return buf.Bytes(), nil
}

// JSON marshal/unmarshal use stable encoding
func (s Snapshot) MarshalJSON() ([]byte, error) { return s.MarshalStableJSON() }

func (s *Snapshot) UnmarshalJSON(b []byte) error {
    m, err := Parse(b)
    if err != nil { return err }
    *s = m
    return nil
}

// Diff returns the sorted keys whose values differ between before and after,
// including keys present on one side only.
func Diff(before, after Snapshot) []string {
    seen := make(map[string]struct{}, len(before)+len(after))
    for k := range before { seen[k] = struct{}{} }
    for k := range after { seen[k] = struct{}{} }
    out := make([]string, 0)
    for k := range seen {
        bv, bok := before[k]
        av, aok := after[k]
        if bok != aok { out = append(out, k); continue }
        bb, _ := json.Marshal(bv)
        ab, _ := json.Marshal(av)
        if !bytes.Equal(bb, ab) { out = append(out, k) }
    }
    sort.Strings(out)
    return out
}

func (s Snapshot) keys() []string {
    keys := make([]string, 0, len(s))
    for k := range s { keys = append(keys, k) }
    sort.Strings(keys)
    return keys
}
