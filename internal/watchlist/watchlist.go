// Package watchlist reads and maintains the plain-text watchlist files.
// Simple lists hold one uppercase symbol per line; the upcoming-IPO list
// uses a colon-delimited extended format (SYMBOL, SYMBOL:DATE, or
// SYMBOL:DATE:COMPANY:PRICE_RANGE) with every field after the symbol
// optional. Comment lines start with '#'; blank lines are ignored.
package watchlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is one parsed line from the upcoming-IPO watchlist.
type Entry struct {
	Symbol       string
	ExpectedDate string
	CompanyName  string
	PriceRange   string
}

// ReadSymbols loads a simple watchlist. A missing file is an empty
// watchlist, not an error.
func ReadSymbols(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open watchlist %s: %w", path, err)
	}
	defer f.Close()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watchlist %s: %w", path, err)
	}
	return symbols, nil
}

// ReadUpcoming loads the extended upcoming-IPO watchlist.
func ReadUpcoming(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open watchlist %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if entry, ok := parseEntry(line); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watchlist %s: %w", path, err)
	}
	return entries, nil
}

// parseEntry splits one colon-delimited line. A lone "-" in a field means
// unknown, same as empty.
func parseEntry(line string) (Entry, bool) {
	parts := strings.Split(line, ":")
	symbol := strings.ToUpper(strings.TrimSpace(parts[0]))
	if symbol == "" {
		return Entry{}, false
	}
	entry := Entry{Symbol: symbol}
	field := func(i int) string {
		if i >= len(parts) {
			return ""
		}
		v := strings.TrimSpace(parts[i])
		if v == "-" {
			return ""
		}
		return v
	}
	entry.ExpectedDate = field(1)
	entry.CompanyName = field(2)
	entry.PriceRange = field(3)
	return entry, true
}
