package models

// SeverityBand is an inclusive [Min, Max] alert-level range.
type SeverityBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether level falls within the band.
func (b *SeverityBand) Contains(level int) bool {
	return level >= b.Min && level <= b.Max
}

// SeverityPolicy gates channel eligibility per severity band. A nil band
// excludes the channel; a rule with no policy at all matches both channels.
type SeverityPolicy struct {
	SMS   *SeverityBand `json:"sms,omitempty"`
	Email *SeverityBand `json:"email,omitempty"`
}

// SystemRule is one field-matching profile within a policy group.
//
// Each pattern is a space-separated token list; tokens prefixed "--*" are
// partial excludes, "--" exact excludes, "*" partial includes, anything else
// an exact include. Empty or "*" patterns match everything. The Message
// pattern is a single substring (or "--" negated substring) test.
type SystemRule struct {
	Hostname string          `json:"hostname"`
	Probe    string          `json:"probe"`
	Source   string          `json:"source"`
	Message  string          `json:"message"`
	Subsys   string          `json:"subsys"`
	UserTag1 string          `json:"user_tag1"`
	UserTag2 string          `json:"user_tag2"`
	Custom1  string          `json:"custom_1"`
	Custom2  string          `json:"custom_2"`
	Custom3  string          `json:"custom_3"`
	Custom4  string          `json:"custom_4"`
	Custom5  string          `json:"custom_5"`
	Severity *SeverityPolicy `json:"severity,omitempty"`
}

// PolicyGroup is a named, ordered bundle of system rules. The name doubles as
// the contact-group routing key.
type PolicyGroup struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Systems []SystemRule `json:"systems"`
}
