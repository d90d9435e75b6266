package main

import "regexp"

// reMain captures everything between the first <main> and the last </main>.
var reMain = regexp.MustCompile(`(?is)<main>(.*)</main>`)

// extractMain returns the main content region of an HTML page.
func extractMain(page string) (string, error) {
	m := reMain.FindStringSubmatch(page)
	if m == nil {
		return "", errContentNotFound
	}
	return m[1], nil
}
