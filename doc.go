// Package main implements aoc, a command-line client for Advent of Code.
//
// # Features
//
//   - Puzzle statements rendered as wrapped terminal text or markdown
//   - Puzzle input and description downloads
//   - Answer submission with verdict detection
//   - Colored event calendars with collected stars
//   - Private leaderboard standings
//
// # Usage
//
//	aoc [read|download|submit PART ANSWER|calendar|private-leaderboard ID] [--year Y] [--day D]
//
// Year and day default to the current or most recent event. Puzzles unlock
// at midnight UTC-5.
//
// # Configuration
//
// The session cookie is read from --session-file, the ADVENT_OF_CODE_SESSION
// environment variable (a .env file in the working directory is honored),
// ~/.adventofcode.session, or adventofcode.session in the user config
// directory. Other settings are loaded from --config or
// <user config dir>/aoc-cli/config.json when present.
package main
