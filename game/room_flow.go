package game

import (
	"cmp"
	"slices"
	"unicode"

	"github.com/Skribblers/skribbler/policy"
	"github.com/Skribblers/skribbler/protocol"
)

const fallbackWord = "skribble"

// enter replaces the state and its countdown together, so no expiry can ever
// fire against a state it was not scheduled for.
func (r *room) enter(s roomState, seconds int) {
	r.state = s
	r.timer = seconds
	r.broadcastState()
	r.updateDescription()
}

func (r *room) handleTick() {
	if r.closing || !hasCountdown(r.state) {
		return
	}
	r.timer--
	if r.timer <= 0 {
		r.timer = 0
		r.expire()
		return
	}
	r.revealDueHints()
	r.broadcast(protocol.UpdateTime{Seconds: r.timer})
}

func (r *room) expire() {
	switch s := r.state.(type) {
	case *startingSoon:
		r.beginNewGame()
	case *roundBegin:
		r.startTurn()
	case *wordSelection:
		r.startDrawing(s, 0)
	case *drawing:
		r.endTurn(protocol.TurnTimeUp)
	case *turnResults:
		if r.nextDrawer() != nil {
			r.enter(&roundBegin{}, roundBeginSeconds)
			return
		}
		r.advanceRound()
	case *gameResults:
		if r.isPrivate() {
			r.enterWaitingRoom()
			return
		}
		r.beginNewGame()
	}
}

func (r *room) beginNewGame() {
	if len(r.members) < policy.MinPlayersToStart {
		r.returnToWaiting()
		return
	}
	r.round = 0
	for _, m := range r.members {
		m.score = 0
		m.hasDrawn = false
		m.guessed = false
	}
	r.enter(&roundBegin{}, roundBeginSeconds)
}

func (r *room) advanceRound() {
	if r.round+1 >= r.settings[protocol.SettingRounds] {
		r.enterGameResults()
		return
	}
	r.round++
	for _, m := range r.members {
		m.hasDrawn = false
	}
	r.enter(&roundBegin{}, roundBeginSeconds)
}

func (r *room) returnToWaiting() {
	if r.isPrivate() {
		r.enterWaitingRoom()
		return
	}
	r.enter(&waitingForPlayers{}, 0)
}

func (r *room) enterWaitingRoom() {
	r.round = 0
	for _, m := range r.members {
		m.score = 0
		m.guessed = false
		m.hasDrawn = false
	}
	r.enter(&waitingRoom{}, 0)
}

func (r *room) nextDrawer() *member {
	if r.reverseOrder {
		for i := len(r.members) - 1; i >= 0; i-- {
			if !r.members[i].hasDrawn {
				return r.members[i]
			}
		}
		return nil
	}
	for _, m := range r.members {
		if !m.hasDrawn {
			return m
		}
	}
	return nil
}

func (r *room) startTurn() {
	if len(r.members) < policy.MinPlayersToStart {
		r.returnToWaiting()
		return
	}
	drawer := r.nextDrawer()
	if drawer == nil {
		r.advanceRound()
		return
	}
	drawer.hasDrawn = true
	for _, m := range r.members {
		m.guessed = false
		m.voted = false
	}
	clear(r.kickVotes)
	r.enter(&wordSelection{drawer: drawer, candidates: r.pickWords()}, wordSelectionSeconds)
}

func (r *room) startDrawing(s *wordSelection, index int) {
	word := s.candidates[index]
	d := &drawing{
		drawer: s.drawer,
		word:   word,
		total:  r.settings[protocol.SettingDrawTime],
		points: map[int]int{},
	}
	if r.settings[protocol.SettingWordMode] != protocol.WordModeHidden {
		d.lengths = policy.WordLengths(word)
	}
	r.enter(d, d.total)
}

func (r *room) endTurn(reason protocol.TurnEndReason) {
	d, ok := r.state.(*drawing)
	if !ok {
		return
	}

	guesserPoints := make([]int, 0, len(d.points))
	for _, m := range r.members {
		if p, ok := d.points[m.id]; ok {
			guesserPoints = append(guesserPoints, p)
		}
	}
	possibleGuessers := len(r.members)
	if slices.Contains(r.members, d.drawer) {
		possibleGuessers--
	}
	drawerPoints := policy.DrawerPoints(guesserPoints, possibleGuessers)

	scores := make([]protocol.ScoreDelta, 0, len(r.members))
	for _, m := range r.members {
		delta := d.points[m.id]
		if m == d.drawer {
			delta = drawerPoints
		}
		m.score += delta
		m.guessed = false
		scores = append(scores, protocol.ScoreDelta{PlayerID: m.id, Score: m.score, Delta: delta})
	}

	r.logger.Debug().Str("word", d.word).Int("reason", int(reason)).Msg("turn ended")
	r.enter(&turnResults{reason: reason, word: d.word, scores: scores}, turnResultsSeconds)
}

func (r *room) enterGameResults() {
	ordered := slices.Clone(r.members)
	slices.SortStableFunc(ordered, func(a, b *member) int {
		return cmp.Compare(b.score, a.score)
	})
	ranking := make([]protocol.Rank, 0, len(ordered))
	for i, m := range ordered {
		place := i
		if i > 0 && ordered[i-1].score == m.score {
			place = ranking[i-1].Place
		}
		ranking = append(ranking, protocol.Rank{PlayerID: m.id, Place: place})
	}
	r.enter(&gameResults{ranking: ranking}, gameResultsSeconds)
}

func (r *room) everyoneGuessed() bool {
	guessed := 0
	for _, m := range r.members {
		if m.guessed {
			guessed++
		}
	}
	return guessed+1 >= len(r.members)
}

func (r *room) pickWords() []string {
	count := r.settings[protocol.SettingWordCount]
	lang := r.settings[protocol.SettingLanguage]
	combination := r.settings[protocol.SettingWordMode] == protocol.WordModeCombination

	var words []string
	if policy.UseCustomOnly(r.settings[protocol.SettingCustomWordsOnly], len(r.customWords)) {
		words = r.sampleCustom(count)
	} else {
		want := count
		if combination {
			want *= 2
		}
		words = r.wordsGenerator.Generate(lang, want)
		if combination {
			words = combine(words)
		}
		for i := range words {
			if len(r.customWords) > 0 && r.rng.IntN(2) == 0 {
				words[i] = r.customWords[r.rng.IntN(len(r.customWords))]
			}
		}
	}

	if len(words) == 0 {
		r.logger.Warn().Int("lang", lang).Msg("word source returned nothing")
		return []string{fallbackWord}
	}
	return words
}

func (r *room) sampleCustom(count int) []string {
	count = min(count, len(r.customWords))
	res := make([]string, 0, count)
	for _, i := range r.rng.Perm(len(r.customWords))[:count] {
		res = append(res, r.customWords[i])
	}
	return res
}

func combine(words []string) []string {
	res := make([]string, 0, len(words)/2)
	for i := 0; i+1 < len(words); i += 2 {
		res = append(res, words[i]+" "+words[i+1])
	}
	return res
}

// revealDueHints uncovers one more letter each time another slice of the
// drawing time has elapsed. At least one letter always stays hidden.
func (r *room) revealDueHints() {
	d, ok := r.state.(*drawing)
	if !ok || r.settings[protocol.SettingWordMode] == protocol.WordModeHidden {
		return
	}
	hidden := hiddenPositions(d.word, d.hints)
	maxHints := min(r.settings[protocol.SettingMaxHints], len(hidden)+len(d.hints)-1)
	if len(d.hints) >= maxHints {
		return
	}
	elapsed := d.total - r.timer
	due := elapsed * (maxHints + 1) / d.total
	if len(d.hints) >= due {
		return
	}

	runes := []rune(d.word)
	pos := hidden[r.rng.IntN(len(hidden))]
	hint := protocol.Hint{Pos: pos, Char: string(runes[pos])}
	d.hints = append(d.hints, hint)

	for _, m := range r.members {
		if m != d.drawer {
			r.sendTo(m, protocol.RevealHint{Hints: []protocol.Hint{hint}})
		}
	}
}

func hiddenPositions(word string, hints []protocol.Hint) []int {
	revealed := map[int]bool{}
	for _, h := range hints {
		revealed[h.Pos] = true
	}
	positions := []int{}
	for i, c := range []rune(word) {
		if unicode.IsSpace(c) || revealed[i] {
			continue
		}
		positions = append(positions, i)
	}
	return positions
}
