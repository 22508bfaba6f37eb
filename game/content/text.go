package content

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

// AnswerConfig is the config for builders that only take an answer
type AnswerConfig struct {
	Answer string
}

// AnswerConfigFrom reads the upper-cased "answer" option, defaulting to SECRET
func AnswerConfigFrom(o puzzle.Options) AnswerConfig {
	return AnswerConfig{Answer: o.Answer()}
}

// AnagramWord is one scrambled word with its marked letter
type AnagramWord struct {
	Original        string `json:"original"`
	Scrambled       string `json:"scrambled"`
	ExtractIndex    int    `json:"extractIndex"`
	DisplayPosition int    `json:"displayPosition"`
	ExtractChar     string `json:"extractChar"`
}

// AnagramData is the payload of an ANAGRAM puzzle
type AnagramData struct {
	Words []AnagramWord `json:"words"`
}

const (
	anagramMaxTargets = 5
	anagramMinWords   = 4
)

// BuildAnagram picks pool words that contain the first answer letters and
// scrambles them. Letters with no matching word are skipped and the puzzle is
// padded to four words with their default extraction letter, so the answer is
// the concatenation of the letters actually extracted, not the input.
func BuildAnagram(rng *rand.Rand, cfg AnswerConfig) (AnagramData, string, error) {
	used := make(map[string]bool)
	var words []AnagramWord

	target := []rune(cfg.Answer)
	for i := 0; i < min(anagramMaxTargets, len(target)); i++ {
		ch := target[i]
		for _, src := range anagramPool {
			if used[src.word] {
				continue
			}
			idx := strings.IndexRune(src.word, ch)
			if idx < 0 {
				continue
			}
			used[src.word] = true
			words = append(words, newAnagramWord(rng, src.word, idx))
			break
		}
	}

	for len(words) < anagramMinWords {
		src := anagramPool[rng.IntN(len(anagramPool))]
		if used[src.word] {
			continue
		}
		used[src.word] = true
		words = append(words, newAnagramWord(rng, src.word, src.extract))
	}

	var answer strings.Builder
	for _, w := range words {
		answer.WriteString(w.ExtractChar)
	}
	return AnagramData{Words: words}, answer.String(), nil
}

func newAnagramWord(rng *rand.Rand, word string, idx int) AnagramWord {
	return AnagramWord{
		Original:        word,
		Scrambled:       scramble(rng, word),
		ExtractIndex:    idx,
		DisplayPosition: idx + 1,
		ExtractChar:     string(word[idx]),
	}
}

// scramble shuffles the letters of word, retrying a few times so the result
// differs from the original when that is possible
func scramble(rng *rand.Rand, word string) string {
	letters := []rune(word)
	for attempt := 0; attempt < 10; attempt++ {
		rng.Shuffle(len(letters), func(i, j int) { letters[i], letters[j] = letters[j], letters[i] })
		if string(letters) != word {
			break
		}
	}
	return string(letters)
}

// MicroBlock is one line of a MICRO_TEXT block
type MicroBlock struct {
	Text       string `json:"text"`
	HasHidden  bool   `json:"hasHidden"`
	HiddenCode string `json:"hiddenCode,omitempty"`
}

// MicroTextData is the payload of a MICRO_TEXT puzzle
type MicroTextData struct {
	Blocks          []MicroBlock `json:"blocks"`
	HiddenLineIndex int          `json:"hiddenLineIndex"`
	Instruction     string       `json:"instruction"`
}

// BuildMicroText hides the answer on one random line of filler text
func BuildMicroText(rng *rand.Rand, cfg AnswerConfig) (MicroTextData, string, error) {
	hidden := rng.IntN(len(microTextLines))
	blocks := make([]MicroBlock, len(microTextLines))
	for i, line := range microTextLines {
		blocks[i] = MicroBlock{Text: line}
		if i == hidden {
			blocks[i].HasHidden = true
			blocks[i].HiddenCode = cfg.Answer
		}
	}

	return MicroTextData{
		Blocks:          blocks,
		HiddenLineIndex: hidden,
		Instruction:     fmt.Sprintf("LOOK VERY CLOSELY AT LINE %d", hidden+1),
	}, cfg.Answer, nil
}

// FoldingConfig configures FOLDING puzzles
type FoldingConfig struct {
	Code string
}

// FoldingConfigFrom reads the "code" option, defaulting to 1234
func FoldingConfigFrom(o puzzle.Options) FoldingConfig {
	return FoldingConfig{Code: o.Upper("code", "1234")}
}

// FoldingData is the payload of a FOLDING puzzle. The renderer prints the
// code twice and crops each copy to one half.
type FoldingData struct {
	Code string `json:"code"`
}

// BuildFolding returns the code as both payload and answer
func BuildFolding(_ *rand.Rand, cfg FoldingConfig) (FoldingData, string, error) {
	return FoldingData{Code: cfg.Code}, cfg.Code, nil
}

// SoundWaveConfig configures SOUND_WAVE puzzles
type SoundWaveConfig struct {
	Answer    string
	Frequency float64
	Pattern   string
}

// SoundWaveConfigFrom decodes SOUND_WAVE options
func SoundWaveConfigFrom(o puzzle.Options) SoundWaveConfig {
	return SoundWaveConfig{
		Answer:    o.Answer(),
		Frequency: o.Float("frequency", 440),
		Pattern:   o.String("pattern", "loop"),
	}
}

// SoundWaveData is the payload of a SOUND_WAVE puzzle. Bars are heights in
// percent.
type SoundWaveData struct {
	Bars      []int   `json:"bars"`
	Frequency float64 `json:"frequency"`
	Pattern   string  `json:"pattern"`
}

const soundWaveBars = 40

// BuildSoundWave draws a noisy sine waveform
func BuildSoundWave(rng *rand.Rand, cfg SoundWaveConfig) (SoundWaveData, string, error) {
	bars := make([]int, soundWaveBars)
	for i := range bars {
		base := math.Sin(float64(i)*0.5)*0.5 + 0.5
		noise := (rng.Float64() - 0.5) * 0.4
		h := math.Max(0.1, math.Min(1.0, base+noise))
		bars[i] = int(math.Floor(h * 100))
	}
	return SoundWaveData{Bars: bars, Frequency: cfg.Frequency, Pattern: cfg.Pattern}, cfg.Answer, nil
}

// PlainTextConfig configures TEXT puzzles
type PlainTextConfig struct {
	Content string
	Answer  string
}

// PlainTextConfigFrom decodes TEXT options
func PlainTextConfigFrom(o puzzle.Options) PlainTextConfig {
	return PlainTextConfig{
		Content: o.String("text", "NO DATA"),
		Answer:  o.Answer(),
	}
}

// PlainTextData is the payload of a TEXT puzzle
type PlainTextData struct {
	Content string `json:"content"`
}

// BuildText prints the content unchanged
func BuildText(_ *rand.Rand, cfg PlainTextConfig) (PlainTextData, string, error) {
	return PlainTextData{Content: cfg.Content}, cfg.Answer, nil
}

// AsciiConfig configures ASCII puzzles
type AsciiConfig struct {
	Name string
}

// AsciiConfigFrom reads an optional silhouette name from "answer"
func AsciiConfigFrom(o puzzle.Options) AsciiConfig {
	return AsciiConfig{Name: o.Upper("answer", "")}
}

// AsciiData is the payload of an ASCII puzzle
type AsciiData struct {
	Art string `json:"art"`
}

// BuildAscii uses the named silhouette if it exists, otherwise a random one
func BuildAscii(rng *rand.Rand, cfg AsciiConfig) (AsciiData, string, error) {
	for _, item := range AsciiLibrary {
		if item.Name == cfg.Name {
			return AsciiData{Art: item.Art}, item.Name, nil
		}
	}
	item := AsciiLibrary[rng.IntN(len(AsciiLibrary))]
	return AsciiData{Art: item.Art}, item.Name, nil
}

// RiddleConfig configures RIDDLE puzzles. Override is used only when both
// text and answer are given.
type RiddleConfig struct {
	Override *RiddleEntry
}

// RiddleConfigFrom decodes the riddle_text/riddle_answer override
func RiddleConfigFrom(o puzzle.Options) RiddleConfig {
	text := o.String("riddle_text", "")
	answer := o.Upper("riddle_answer", "")
	if text == "" || answer == "" {
		return RiddleConfig{}
	}
	return RiddleConfig{Override: &RiddleEntry{Text: text, Answer: answer}}
}

// RiddleData is the payload of a RIDDLE puzzle
type RiddleData struct {
	Text string `json:"text"`
}

// BuildRiddle returns the override riddle or a random pool entry
func BuildRiddle(rng *rand.Rand, cfg RiddleConfig) (RiddleData, string, error) {
	r := Riddles[rng.IntN(len(Riddles))]
	if cfg.Override != nil {
		r = *cfg.Override
	}
	return RiddleData{Text: r.Text}, strings.ToUpper(r.Answer), nil
}

// WordLadderData is the payload of a WORD_LADDER puzzle. The hidden rung is
// blanked with underscores.
type WordLadderData struct {
	Rungs       []string `json:"rungs"`
	HiddenIndex int      `json:"hiddenIndex"`
	Instruction string   `json:"instruction"`
}

// BuildWordLadder hides the middle rung of a random ladder
func BuildWordLadder(rng *rand.Rand, _ struct{}) (WordLadderData, string, error) {
	ladder := WordLadders[rng.IntN(len(WordLadders))]
	if len(ladder) < 3 {
		return WordLadderData{}, "", fmt.Errorf("word ladder %v has fewer than 3 rungs", ladder)
	}

	hidden := len(ladder) / 2
	rungs := make([]string, len(ladder))
	copy(rungs, ladder)
	rungs[hidden] = strings.Repeat("_", len(ladder[hidden]))

	return WordLadderData{
		Rungs:       rungs,
		HiddenIndex: hidden,
		Instruction: "CHANGE ONE LETTER PER STEP",
	}, ladder[hidden], nil
}

// RebusData is the payload of a REBUS puzzle
type RebusData struct {
	Lines []string `json:"lines"`
	Hint  string   `json:"hint"`
}

// BuildRebus picks a random rebus
func BuildRebus(rng *rand.Rand, _ struct{}) (RebusData, string, error) {
	r := Rebuses[rng.IntN(len(Rebuses))]
	return RebusData{Lines: r.Lines, Hint: fmt.Sprintf("%d WORDS", len(strings.Fields(r.Answer)))}, r.Answer, nil
}
