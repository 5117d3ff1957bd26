package main

import "os"

// LoadWelcome reads the raw welcome-banner text (spec §6 "welcome: raw
// text, appended to the welcome banner"). A missing file yields an empty
// banner.
func LoadWelcome(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}
