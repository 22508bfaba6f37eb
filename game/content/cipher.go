package content

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Cipher variants
const (
	VariantCaesar = "CAESAR"
	VariantPigpen = "PIGPEN"
	VariantIcon   = "ICON"
)

// CipherConfig configures CIPHER puzzles
type CipherConfig struct {
	Text    string
	Variant string
	Shift   int
}

// CipherConfigFrom decodes CIPHER options; unknown variants mean CAESAR
func CipherConfigFrom(o puzzle.Options) CipherConfig {
	cfg := CipherConfig{
		Text:    o.Upper("text", puzzle.DefaultAnswer),
		Variant: o.Upper("variant", VariantCaesar),
		Shift:   o.Int("shift", 3),
	}
	switch cfg.Variant {
	case VariantCaesar, VariantPigpen, VariantIcon:
	default:
		cfg.Variant = VariantCaesar
	}
	return cfg
}

// Symbol is one glyph of a symbol cipher. Kind is "pigpen", "icon" or "text"
// for characters with no symbol.
type Symbol struct {
	Kind  string `json:"type"`
	Class string `json:"class,omitempty"`
	Char  string `json:"char"`
}

// CipherData is the payload of a CIPHER puzzle
type CipherData struct {
	Variant    string   `json:"variant"`
	Ciphertext string   `json:"ciphertext,omitempty"`
	Symbols    []Symbol `json:"symbols,omitempty"`
	PartialKey string   `json:"partialKey"`
	VisualKey  bool     `json:"visualKey,omitempty"`
}

var pigpenClasses = map[rune]string{
	'A': "pp-border-rb", 'B': "pp-border-lr pp-border-b", 'C': "pp-border-lb",
	'D': "pp-border-tb pp-border-r", 'E': "pp-border-all", 'F': "pp-border-tb pp-border-l",
	'G': "pp-border-rt", 'H': "pp-border-lr pp-border-t", 'I': "pp-border-lt",
	'J': "pp-border-rb pigpen-dot", 'K': "pp-border-lr pp-border-b pigpen-dot", 'L': "pp-border-lb pigpen-dot",
	'M': "pp-border-tb pp-border-r pigpen-dot", 'N': "pp-border-all pigpen-dot", 'O': "pp-border-tb pp-border-l pigpen-dot",
	'P': "pp-border-rt pigpen-dot", 'Q': "pp-border-lr pp-border-t pigpen-dot", 'R': "pp-border-lt pigpen-dot",
	'S': "pp-rotate pp-border-rb", 'T': "pp-rotate pp-border-lb",
	'U': "pp-rotate pp-border-rt", 'V': "pp-rotate pp-border-lt",
	'W': "pp-rotate pp-border-rb pigpen-dot", 'X': "pp-rotate pp-border-lb pigpen-dot",
	'Y': "pp-rotate pp-border-rt pigpen-dot", 'Z': "pp-rotate pp-border-lt pigpen-dot",
}

var iconClasses = map[rune]string{
	'A': "fa-solid fa-anchor", 'B': "fa-solid fa-bicycle", 'C': "fa-solid fa-cloud",
	'D': "fa-solid fa-diamond", 'E': "fa-solid fa-eye", 'F': "fa-solid fa-feather",
	'G': "fa-solid fa-ghost", 'H': "fa-solid fa-heart", 'I': "fa-solid fa-ice-cream",
	'J': "fa-solid fa-jet-fighter", 'K': "fa-solid fa-key", 'L': "fa-solid fa-leaf",
	'M': "fa-solid fa-moon", 'N': "fa-solid fa-music", 'O': "fa-solid fa-otter",
	'P': "fa-solid fa-paw", 'Q': "fa-solid fa-question", 'R': "fa-solid fa-rocket",
	'S': "fa-solid fa-star", 'T': "fa-solid fa-tree", 'U': "fa-solid fa-umbrella",
	'V': "fa-solid fa-volcano", 'W': "fa-solid fa-water", 'X': "fa-solid fa-xmarks-lines",
	'Y': "fa-solid fa-yin-yang", 'Z': "fa-solid fa-bolt",
}

// BuildCipher encodes the text with the configured variant. The answer is
// the upper-cased plaintext.
func BuildCipher(_ *rand.Rand, cfg CipherConfig) (CipherData, string, error) {
	data := CipherData{Variant: cfg.Variant}

	switch cfg.Variant {
	case VariantPigpen:
		data.Symbols = symbolize(cfg.Text, "pigpen", pigpenClasses)
		data.PartialKey = "LOOK FOR THE PATTERNS"
		data.VisualKey = true
	case VariantIcon:
		data.Symbols = symbolize(cfg.Text, "icon", iconClasses)
		data.PartialKey = "A=ANCHOR, B=BIKE..."
	default:
		shift := ((cfg.Shift % 26) + 26) % 26
		data.Ciphertext = CaesarShift(cfg.Text, shift)
		data.PartialKey = fmt.Sprintf("SHIFT +%d", shift)
	}
	return data, cfg.Text, nil
}

// CaesarShift rotates A-Z by shift places; other runes pass through
func CaesarShift(text string, shift int) string {
	var b strings.Builder
	for _, r := range text {
		if idx := strings.IndexRune(alphabet, r); idx >= 0 {
			b.WriteByte(alphabet[(idx+shift)%26])
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func symbolize(text, kind string, classes map[rune]string) []Symbol {
	symbols := make([]Symbol, 0, len(text))
	for _, r := range text {
		if class, ok := classes[r]; ok {
			symbols = append(symbols, Symbol{Kind: kind, Class: class, Char: string(r)})
		} else {
			symbols = append(symbols, Symbol{Kind: "text", Char: string(r)})
		}
	}
	return symbols
}

// TextConfig is the config shared by single-text caller-supplied puzzles
type TextConfig struct {
	Text string
}

// TextConfigFrom reads the upper-cased "text" option, defaulting to SECRET
func TextConfigFrom(o puzzle.Options) TextConfig {
	return TextConfig{Text: o.Upper("text", puzzle.DefaultAnswer)}
}

// polybiusSquare is the 5x5 square with J folded into I
var polybiusSquare = []string{"ABCDE", "FGHIK", "LMNOP", "QRSTU", "VWXYZ"}

// PolybiusData is the payload of a POLYBIUS puzzle
type PolybiusData struct {
	Square []string   `json:"square"`
	Words  [][]string `json:"words"`
}

// BuildPolybius encodes each letter as row/column digits of the 5x5 square.
// The answer is the letters actually encoded: J becomes I and anything that
// is not a letter is dropped.
func BuildPolybius(_ *rand.Rand, cfg TextConfig) (PolybiusData, string, error) {
	data := PolybiusData{Square: polybiusSquare, Words: [][]string{}}
	var answer strings.Builder

	for _, word := range strings.Fields(cfg.Text) {
		var coords []string
		for _, r := range word {
			if r == 'J' {
				r = 'I'
			}
			row, col, ok := polybiusCoords(r)
			if !ok {
				continue
			}
			coords = append(coords, fmt.Sprintf("%d%d", row, col))
			answer.WriteRune(r)
		}
		if len(coords) > 0 {
			data.Words = append(data.Words, coords)
		}
	}

	if answer.Len() == 0 {
		if cfg.Text == puzzle.DefaultAnswer {
			return PolybiusData{}, "", fmt.Errorf("polybius: no encodable letters in %q", cfg.Text)
		}
		logrus.WithField("text", cfg.Text).Debug("polybius text has no letters, using default")
		return BuildPolybius(nil, TextConfig{Text: puzzle.DefaultAnswer})
	}
	return data, answer.String(), nil
}

func polybiusCoords(r rune) (int, int, bool) {
	for row, line := range polybiusSquare {
		if col := strings.IndexRune(line, r); col >= 0 {
			return row + 1, col + 1, true
		}
	}
	return 0, 0, false
}

// Tactile modes
const (
	ModeMorse   = "MORSE"
	ModeBraille = "BRAILLE"
)

// TactileConfig configures TACTILE puzzles
type TactileConfig struct {
	Text string
	Mode string
}

// TactileConfigFrom decodes TACTILE options; unknown modes mean MORSE
func TactileConfigFrom(o puzzle.Options) TactileConfig {
	cfg := TactileConfig{
		Text: o.Upper("text", puzzle.DefaultAnswer),
		Mode: o.Upper("mode", ModeMorse),
	}
	if cfg.Mode != ModeBraille {
		cfg.Mode = ModeMorse
	}
	return cfg
}

var morseCode = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
}

var brailleCells = map[rune]string{
	'A': "⠁", 'B': "⠃", 'C': "⠉", 'D': "⠙", 'E': "⠑", 'F': "⠋", 'G': "⠛",
	'H': "⠓", 'I': "⠊", 'J': "⠚", 'K': "⠅", 'L': "⠇", 'M': "⠍", 'N': "⠝",
	'O': "⠕", 'P': "⠏", 'Q': "⠟", 'R': "⠗", 'S': "⠎", 'T': "⠞", 'U': "⠥",
	'V': "⠧", 'W': "⠺", 'X': "⠭", 'Y': "⠽", 'Z': "⠵",
}

// TactileData is the payload of a TACTILE puzzle. Words holds one encoded
// symbol per character.
type TactileData struct {
	Mode  string     `json:"mode"`
	Words [][]string `json:"words"`
}

// BuildTactile encodes the text in Morse or Braille. Characters without an
// encoding in the chosen mode are dropped from both payload and answer.
func BuildTactile(_ *rand.Rand, cfg TactileConfig) (TactileData, string, error) {
	table := morseCode
	if cfg.Mode == ModeBraille {
		table = brailleCells
	}

	data := TactileData{Mode: cfg.Mode, Words: [][]string{}}
	var answer strings.Builder
	for _, word := range strings.Fields(cfg.Text) {
		var symbols []string
		for _, r := range word {
			if code, ok := table[r]; ok {
				symbols = append(symbols, code)
				answer.WriteRune(r)
			}
		}
		if len(symbols) > 0 {
			data.Words = append(data.Words, symbols)
		}
	}

	if answer.Len() == 0 {
		if cfg.Text == puzzle.DefaultAnswer {
			return TactileData{}, "", fmt.Errorf("tactile: no encodable characters in %q for %s", cfg.Text, cfg.Mode)
		}
		logrus.WithFields(logrus.Fields{"text": cfg.Text, "mode": cfg.Mode}).Debug("tactile text not encodable, using default")
		return BuildTactile(nil, TactileConfig{Text: puzzle.DefaultAnswer, Mode: cfg.Mode})
	}
	return data, answer.String(), nil
}

// ScytaleConfig configures SCYTALE puzzles
type ScytaleConfig struct {
	Text  string
	Rails int
}

// ScytaleConfigFrom decodes SCYTALE options
func ScytaleConfigFrom(o puzzle.Options) ScytaleConfig {
	return ScytaleConfig{
		Text:  o.Upper("text", puzzle.DefaultAnswer),
		Rails: max(o.Int("rails", 4), 2),
	}
}

// ScytaleData is the payload of a SCYTALE puzzle
type ScytaleData struct {
	Rails  int    `json:"rails"`
	Strip  string `json:"strip"`
	Length int    `json:"length"`
}

// ScytalePad fills the last turn of the strip
const ScytalePad = 'X'

// BuildScytale writes the text in rows of ceil(n/rails) letters and reads it
// back column by column, as if unwound from a rod with rails faces. The
// answer is the text with spaces removed; padding is not part of it.
func BuildScytale(_ *rand.Rand, cfg ScytaleConfig) (ScytaleData, string, error) {
	plain := []rune(strings.Join(strings.Fields(cfg.Text), ""))
	if len(plain) == 0 {
		return ScytaleData{}, "", fmt.Errorf("scytale: empty text")
	}

	cols := (len(plain) + cfg.Rails - 1) / cfg.Rails
	padded := make([]rune, cfg.Rails*cols)
	for i := range padded {
		if i < len(plain) {
			padded[i] = plain[i]
		} else {
			padded[i] = ScytalePad
		}
	}

	strip := make([]rune, 0, len(padded))
	for c := 0; c < cols; c++ {
		for r := 0; r < cfg.Rails; r++ {
			strip = append(strip, padded[r*cols+c])
		}
	}

	if got := UnwindScytale(string(strip), cfg.Rails); got != string(padded) {
		return ScytaleData{}, "", fmt.Errorf("scytale: strip unwinds to %q, want %q", got, string(padded))
	}

	return ScytaleData{Rails: cfg.Rails, Strip: string(strip), Length: len(plain)}, string(plain), nil
}

// UnwindScytale reverses BuildScytale's strip back into the padded plaintext
func UnwindScytale(strip string, rails int) string {
	runes := []rune(strip)
	if rails <= 0 || len(runes)%rails != 0 {
		return ""
	}
	cols := len(runes) / rails
	out := make([]rune, len(runes))
	for i, r := range runes {
		c, row := i/rails, i%rails
		out[row*cols+c] = r
	}
	return string(out)
}

// MirrorData is the payload of a MIRROR puzzle
type MirrorData struct {
	Mirrored string `json:"mirrored"`
	Axis     string `json:"axis"`
}

// BuildMirror reverses the text for reading in a mirror
func BuildMirror(_ *rand.Rand, cfg TextConfig) (MirrorData, string, error) {
	runes := []rune(cfg.Text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return MirrorData{Mirrored: string(runes), Axis: "vertical"}, cfg.Text, nil
}
