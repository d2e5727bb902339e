// Package signup parses the pasted signup list for a session.
package signup

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
)

var (
	// A date header such as "2026-01-03 周六" or "2026年1月3日"
	yearHeader = regexp.MustCompile(`^(19|20)\d{2}(\D|$)`)

	// List numbering such as "12. ", "3,", "4、" or "5)"
	numbering = regexp.MustCompile(`^\d+\s*[.,、．，)）]\s*`)
)

// Directory holds the known players of the club
type Directory struct {
	Males   []string
	Females []string
}

// Result is the parsed signup list
type Result struct {
	Roster allocator.Roster

	// Unknown lists names not found in the directory, in signup order
	Unknown []string

	// Duplicates lists names that signed up more than once
	Duplicates []string
}

// Players returns the number of recognised players
func (r *Result) Players() int {
	return r.Roster.Size()
}

// Parse reads one name per line. Blank lines, "#" comments and date headers are skipped,
// and list numbering is stripped. Known names keep their signup order.
func Parse(text string, dir Directory) (*Result, error) {
	gender := make(map[string]allocator.Gender, len(dir.Males)+len(dir.Females))
	for _, m := range dir.Males {
		gender[m] = allocator.GenderMale
	}
	for _, f := range dir.Females {
		gender[f] = allocator.GenderFemale
	}

	result := &Result{}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		name := NormaliseLine(scanner.Text())
		if name == "" {
			continue
		}

		if seen[name] {
			result.Duplicates = append(result.Duplicates, name)
			continue
		}
		seen[name] = true

		switch gender[name] {
		case allocator.GenderMale:
			result.Roster.Males = append(result.Roster.Males, name)
		case allocator.GenderFemale:
			result.Roster.Females = append(result.Roster.Females, name)
		default:
			result.Unknown = append(result.Unknown, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read signup list: %w", err)
	}

	return result, nil
}

// NormaliseLine returns the player name on a signup line, or "" if the line holds no name
func NormaliseLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || yearHeader.MatchString(line) {
		return ""
	}
	line = numbering.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// CourtCountFor returns the default number of courts for a turnout
func CourtCountFor(players int) int {
	if players <= 12 {
		return 2
	}
	return 3
}
