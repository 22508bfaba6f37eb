package content

// AsciiArt is a named silhouette
type AsciiArt struct {
	Name string
	Art  string
}

// AsciiLibrary holds the silhouettes for ASCII puzzles
var AsciiLibrary = []AsciiArt{
	{Name: "KEY", Art: `
   .---.
  /     \
  |  O  |
  \     /
   '---'
     |
     |
     |
   .-'-.
   '---'
`},
	{Name: "LOCK", Art: `
   .---.
  /  _  \
 |  _  |
 | | | |
 |_| |_|
 |     |
 |  O  |
 |_____|
`},
	{Name: "BOMB", Art: `
      .--.
     /    \
    |  ()  |
     \    /
      '--'
       ||
      _||_
     /____\
`},
	{Name: "GHOST", Art: `
   .-.
  ( " )
   / \
  (   )
  /   \
 (_/ \_)
`},
}

// RiddleEntry is a riddle and its one-word answer
type RiddleEntry struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// Riddles is the pool for RIDDLE puzzles
var Riddles = []RiddleEntry{
	{"The more of me there is, the less you see. What am I?", "DARKNESS"},
	{"I have keys but no locks. I have space but no room. You can enter but can't go inside. What am I?", "KEYBOARD"},
	{"I speak without a mouth and hear without ears. I have no body, but I come alive with the wind. What am I?", "ECHO"},
	{"I have cities, but no houses. I have mountains, but no trees. I have water, but no fish. What am I?", "MAP"},
	{"The more you take, the more you leave behind. What am I?", "FOOTSTEPS"},
	{"I can be cracked, made, told, and played. What am I?", "JOKE"},
	{"I have hands but cannot clap. What am I?", "CLOCK"},
	{"I go up but never come down. What am I?", "AGE"},
}

// WordLadders are chains where neighbouring rungs differ by one letter
var WordLadders = [][]string{
	{"COLD", "CORD", "CARD", "WARD", "WARM"},
	{"HEAD", "HEAL", "TEAL", "TELL", "TALL", "TAIL"},
	{"SAFE", "SAME", "GAME", "GATE"},
	{"FIND", "FINE", "FIRE", "HIRE", "HIDE"},
	{"SHIP", "SHOP", "STOP", "STEP"},
}

// RebusEntry is a word arrangement and the phrase it depicts
type RebusEntry struct {
	Lines  []string
	Answer string
}

// Rebuses is the pool for REBUS puzzles
var Rebuses = []RebusEntry{
	{Lines: []string{"MIND", "------", "MATTER"}, Answer: "MIND OVER MATTER"},
	{Lines: []string{"STAND", "-----", "I"}, Answer: "I UNDERSTAND"},
	{Lines: []string{"ERIF"}, Answer: "BACKFIRE"},
	{Lines: []string{"T", "O", "U", "C", "H"}, Answer: "TOUCHDOWN"},
	{Lines: []string{"SEC  OND"}, Answer: "SPLIT SECOND"},
	{Lines: []string{"--------", "READING", "--------"}, Answer: "READING BETWEEN THE LINES"},
}

// Picture is a named nonogram bitmap ('#' filled, '.' empty)
type Picture struct {
	Name string
	Rows []string
}

// Pictures is the pool for NONOGRAM puzzles
var Pictures = []Picture{
	{Name: "HEART", Rows: []string{
		".##.##.",
		"#######",
		"#######",
		"#######",
		".#####.",
		"..###..",
		"...#...",
	}},
	{Name: "KEY", Rows: []string{
		".##....",
		"#..#...",
		"#..####",
		".##..#.",
		".....#.",
		".......",
		".......",
	}},
	{Name: "HOUSE", Rows: []string{
		"...#...",
		"..###..",
		".#####.",
		"#######",
		".#...#.",
		".#.#.#.",
		".#.#.#.",
	}},
	{Name: "FLAG", Rows: []string{
		"#####..",
		"######.",
		"#####..",
		"#......",
		"#......",
		"#......",
		"#......",
	}},
}

type anagramSource struct {
	word    string
	extract int
}

// anagramPool is the source words for ANAGRAM puzzles, with the default
// extraction index used when a word pads the puzzle
var anagramPool = []anagramSource{
	{"PLANET", 0},
	{"ROCKET", 0},
	{"ESCAPE", 0},
	{"SECOND", 0},
	{"CASTLE", 0},
	{"DANGER", 3},
	{"HIDDEN", 0},
	{"WINTER", 0},
	{"BRONZE", 0},
	{"MASTER", 0},
	{"FLIGHT", 0},
	{"ANCHOR", 0},
}

// WordSearchBank is the themed pool of words hidden in WORD_SEARCH grids
var WordSearchBank = []string{"CODE", "HACK", "DATA", "SCAN", "BYTE", "FILE", "LOCK", "PASS"}

var symbolPool = []string{"🍎", "🍌", "🍇", "⭐", "🔷", "🌙"}

var microTextLines = []string{
	"PROCESSING DATA STREAM... ANALYZING SECURITY PROTOCOLS...",
	"SCANNING NETWORK TRAFFIC FOR ANOMALIES...",
	"FIREWALL STATUS: ACTIVE. ENCRYPTION: ENABLED.",
	"MONITORING SYSTEM LOGS FOR UNAUTHORIZED ACCESS...",
	"DATABASE INTEGRITY CHECK: PASSED.",
	"RUNNING DIAGNOSTIC SUBROUTINES...",
	"MEMORY ALLOCATION: OPTIMAL. CPU USAGE: NORMAL.",
}
