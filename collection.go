package workshop

import "fmt"

// Collection names. Engine collections key their records by serial number,
// generator collections by asset code, spare parts by part key.
const (
	CollEngineSupply     = "eng_supply"
	CollEngineIssue      = "eng_issue"
	CollEngineRehab      = "eng_rehab"
	CollEngineCheck      = "eng_check"
	CollEngineUpload     = "eng_upload"
	CollEngineLathe      = "eng_lathe"
	CollEnginePump       = "eng_pump"
	CollEngineElectrical = "eng_electrical"
	CollGeneratorSupply  = "gen_supply"
	CollGeneratorIssue   = "gen_issue"
	CollGeneratorInspect = "gen_inspect"
	CollSpares           = "spares"
)

// Business key field names.
const (
	KeySerial = "serial"
	KeyCode   = "code"
	KeyPart   = "key"
)

// Collection describes one logical record category: its business key field
// and the domain fields its forms submit (id and ts excluded).
type Collection struct {
	Name     string
	KeyField string
	Fields   []string
}

var registry = []Collection{
	{CollEngineSupply, KeySerial, []string{"itemName", "engineType", "model", "serial", "prevSite", "supDate", "supplier", "notes"}},
	{CollEngineIssue, KeySerial, []string{"serial", "currSite", "receiver", "requester", "issueDate", "notes"}},
	{CollEngineRehab, KeySerial, []string{"serial", "rehabber", "rehabType", "rehabDate", "notes"}},
	{CollEngineCheck, KeySerial, []string{"serial", "inspector", "desc", "checkDate", "notes"}},
	{CollEngineUpload, KeySerial, []string{"serial", "rehabUp", "checkUp", "rehabUpDate", "checkUpDate", "notes"}},
	{CollEngineLathe, KeySerial, []string{"serial", "lathe", "latheDate", "notes"}},
	{CollEnginePump, KeySerial, []string{"serial", "pumpSerial", "pumpRehab", "notes"}},
	{CollEngineElectrical, KeySerial, []string{"serial", "etype", "starter", "alternator", "edate"}},
	{CollGeneratorSupply, KeyCode, []string{"itemName", "gType", "model", "code", "prevSite", "supDate", "supplier", "vendor", "notes"}},
	{CollGeneratorIssue, KeyCode, []string{"itemName", "code", "issueDate", "receiver", "requester", "currSite", "notes"}},
	{CollGeneratorInspect, KeyCode, []string{"code", "inspector", "elecRehab", "rehabDate", "rehabUp", "checkUp", "notes"}},
	{CollSpares, KeyPart, []string{"itemType", "key", "model", "partName", "qty", "state", "notes"}},
}

// Collections returns the full registry in declaration order.
func Collections() []Collection {
	out := make([]Collection, len(registry))
	copy(out, registry)

	return out
}

// LookupCollection returns the registry entry for name.
func LookupCollection(name string) (Collection, bool) {
	for _, c := range registry {
		if c.Name == name {
			return c, true
		}
	}

	return Collection{}, false
}

// KeyField returns the business key field for a collection, or "" when the
// collection is unknown.
func KeyField(collection string) string {
	c, ok := LookupCollection(collection)
	if !ok {
		return ""
	}

	return c.KeyField
}

// Category is a named set of collections selected for a range export.
type Category string

// Export categories, matching the report types the workshop produces.
const (
	CategoryEnginesAll        Category = "engines_all"
	CategoryGeneratorsAll     Category = "generators_all"
	CategoryEnginesLathe      Category = "engines_lathe"
	CategoryEnginesElectrical Category = "engines_electrical"
	CategoryEnginesPump       Category = "engines_pump"
	CategoryEnginesIssue      Category = "engines_issue"
	CategoryGeneratorsIssue   Category = "generators_issue"
)

var categories = map[Category][]string{
	CategoryEnginesAll: {
		CollEngineSupply, CollEngineIssue, CollEngineRehab, CollEngineCheck,
		CollEngineUpload, CollEngineLathe, CollEnginePump, CollEngineElectrical,
	},
	CategoryGeneratorsAll:     {CollGeneratorSupply, CollGeneratorIssue, CollGeneratorInspect},
	CategoryEnginesLathe:      {CollEngineLathe},
	CategoryEnginesElectrical: {CollEngineElectrical},
	CategoryEnginesPump:       {CollEnginePump},
	CategoryEnginesIssue:      {CollEngineIssue},
	CategoryGeneratorsIssue:   {CollGeneratorIssue},
}

// Collections returns the ordered collection set the category spans.
func (c Category) Collections() ([]string, error) {
	cols, ok := categories[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	out := make([]string, len(cols))
	copy(out, cols)

	return out, nil
}

// ExportHeaders returns the ordered column set for a category export: the
// business key field first, then every domain field of the category's
// collections in registry order, deduplicated.
func ExportHeaders(cat Category) ([]string, error) {
	cols, err := cat.Collections()
	if err != nil {
		return nil, err
	}

	keyField := KeyField(cols[0])
	headers := []string{keyField}
	seen := map[string]bool{keyField: true}
	for _, name := range cols {
		c, _ := LookupCollection(name)
		for _, f := range c.Fields {
			if seen[f] {
				continue
			}
			seen[f] = true
			headers = append(headers, f)
		}
	}

	return headers, nil
}
