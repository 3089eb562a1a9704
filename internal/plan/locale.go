package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

const (
	// BaseLocale is injected when no locale is requested
	BaseLocale = "en"
	i18nDir    = "i18n"
)

// localePattern keeps locale identifiers usable as file names and filename infixes.
var localePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// DictionaryPath returns where the dictionary for locale lives under dir.
func DictionaryPath(dir, locale string) string {
	return filepath.Join(dir, i18nDir, locale+".json")
}

// LoadDictionary reads the JSON mapping for locale. A missing file is fatal.
func LoadDictionary(dir, locale string) (map[string]any, error) {
	if !localePattern.MatchString(locale) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocale, locale)
	}

	path := DictionaryPath(dir, locale)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLocaleNotFound, path)
		}
		return nil, fmt.Errorf("failed to read locale dictionary %s: %w", path, err)
	}

	dict := map[string]any{}
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON object: %v", ErrInvalidLocale, path, err)
	}
	if dict == nil {
		dict = map[string]any{}
	}

	return dict, nil
}
