package util

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

const randAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandStringWithUpperLowerNum returns a random alphanumeric suffix,
// used to keep job directories unique.
func GenerateRandStringWithUpperLowerNum(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randAlphabet[rand.Intn(len(randAlphabet))]
	}
	return string(b)
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizePathName strips characters that break ffmpeg arguments or file paths.
func SanitizePathName(name string) string {
	return unsafePathChars.ReplaceAllString(name, "_")
}

// FormatSeconds renders seconds the way ffmpeg expects them on -ss/-to.
func FormatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// ExtractJsonFromText locates the JSON payload inside an LLM reply, which may
// be wrapped in a markdown code fence or surrounded by prose.
func ExtractJsonFromText(text string) string {
	if m := codeFenceRe.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}

	start := firstIndexOfAny(text, "{", "[")
	end := lastIndexOfAny(text, "}", "]")
	if start == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

func firstIndexOfAny(s string, subs ...string) int {
	idx := -1
	for _, sub := range subs {
		if i := strings.Index(s, sub); i != -1 && (idx == -1 || i < idx) {
			idx = i
		}
	}
	return idx
}

func lastIndexOfAny(s string, subs ...string) int {
	idx := -1
	for _, sub := range subs {
		if i := strings.LastIndex(s, sub); i > idx {
			idx = i
		}
	}
	return idx
}
