package ledger

import "encoding/json"

// Amounts are rendered as plain decimal strings ("1000.00") and calendar
// dates as YYYY-MM-DD.

func (e Employee) MarshalJSON() ([]byte, error) {
    type plain Employee
    hired := ""
    if !e.HiredOn.IsZero() { hired = e.HiredOn.Format(DateLayout) }
    return json.Marshal(struct {
        plain
        Salary  string `json:"salario"`
        HiredOn string `json:"data_admissao"`
    }{plain(e), FormatAmount(e.Salary), hired})
}

func (e Entry) MarshalJSON() ([]byte, error) {
    type plain Entry
    return json.Marshal(struct {
        plain
        Amount string `json:"valor"`
    }{plain(e), FormatAmount(e.Amount)})
}

func (r EntryRow) MarshalJSON() ([]byte, error) {
    type plain EntryRow
    return json.Marshal(struct {
        plain
        Amount string `json:"valor"`
    }{plain(r), FormatAmount(r.Amount)})
}

func (r AuditRecord) MarshalJSON() ([]byte, error) {
    type plain AuditRecord
    return json.Marshal(struct {
        plain
        Before json.RawMessage `json:"dados_anteriores,omitempty"`
        After  json.RawMessage `json:"dados_novos,omitempty"`
    }{plain(r), raw(r.Before), raw(r.After)})
}

func raw(b []byte) json.RawMessage {
    if len(b) == 0 { return nil }
    return json.RawMessage(b)
}
