package config

import "testing"

// FuzzParse feeds arbitrary YAML through the loader. Parse must reject bad
// input with an error, never crash, and never return a nil config without
// one.
func FuzzParse(f *testing.F) {
	f.Add("formats:\n  - deb\n  - rpm\nhttp:\n  retries: 3")
	f.Add("")
	f.Add("{}")
	f.Add("null")
	f.Add("[]")
	f.Add("invalid: yaml: content: [")
	f.Add("formats: [deb]\nunknown_key: true")
	f.Add("http:\n  timeoutSeconds: -1")
	f.Add("fetch:\n  workers: 0\n  dest: \"\"")
	f.Add("formats: &a [deb]\nother: *a")
	f.Add("---\n---\n---")
	f.Add("formats: !!str deb")

	f.Fuzz(func(t *testing.T, data string) {
		cfg, err := Parse([]byte(data))
		if err != nil {
			if cfg != nil {
				t.Error("Parse returned a config alongside an error")
			}
			return
		}
		if cfg == nil {
			t.Fatal("Parse returned nil config without an error")
		}
		if cfg.HTTP.Retries < 1 || cfg.Fetch.Workers < 1 {
			t.Errorf("accepted config with out-of-range values: %+v", cfg)
		}
	})
}
