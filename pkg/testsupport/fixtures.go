package testsupport

import (
	"encoding/json"
	"os"
)

// LoadFixture reads a raw fixture file from testdata.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden decodes a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// LoadGoldenBytes decodes in-memory JSON into v using the same rules as
// LoadGolden.
func LoadGoldenBytes(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
