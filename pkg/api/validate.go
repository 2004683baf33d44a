package api

import (
	"fmt"
	"regexp"
)

var projectNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Validate checks the project configuration for errors.
func (c *ProjectConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !projectNamePattern.MatchString(c.Name) {
		return fmt.Errorf("name %q must start with a letter and contain only letters, digits, '-' or '_'", c.Name)
	}

	if c.Language == "" {
		return nil
	}
	lang, err := ParseLanguage(string(c.Language))
	if err != nil {
		return err
	}
	c.Language = lang

	if IsReservedWord(lang, c.Name) {
		return fmt.Errorf("name %q is a reserved word in %s", c.Name, lang)
	}
	return nil
}
