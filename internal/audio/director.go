package audio

import (
	"sync"

	"github.com/tablewire/tablewire/internal/game"
)

// Director watches consecutive snapshots and decides which cues fire. The
// scheduler itself plays anything it is asked to; the director is the layer
// that guarantees one cue per logical event — one chirp per dealt card
// identity, one fanfare per natural, one result cue per round.
type Director struct {
	sched     *Scheduler
	localName string

	mu                 sync.Mutex
	seenCards          map[string]bool
	lastBets           map[string]int
	announcedBlackjack bool
	firstSnapshot      bool
}

// NewDirector creates a director for the given local display name
func NewDirector(sched *Scheduler, localName string) *Director {
	return &Director{
		sched:         sched,
		localName:     localName,
		seenCards:     make(map[string]bool),
		lastBets:      make(map[string]int),
		firstSnapshot: true,
	}
}

// Observe is a synchronizer subscriber. It must see every installed snapshot
// to keep its dedup state coherent across rounds and reconnects.
func (d *Director) Observe(prev game.Phase, state *game.GameState) {
	d.mu.Lock()

	entering := func(p game.Phase) bool { return state.Phase == p && prev != p }

	if entering(game.PhaseDealing) {
		// Fresh deal: old card identities left the table
		d.seenCards = make(map[string]bool)
		d.announcedBlackjack = false
	}

	newCards := 0
	d.markHandLocked(state.DealerHand, &newCards)
	for i := range state.Players {
		d.markHandLocked(state.Players[i].Hand, &newCards)
	}

	raisedBet := false
	for i := range state.Players {
		p := &state.Players[i]
		total := p.CurrentBet + p.InsuranceBet
		if total > d.lastBets[p.ID] {
			raisedBet = true
		}
		d.lastBets[p.ID] = total
	}

	blackjack := false
	var result game.RoundResult
	if local := state.PlayerByName(d.localName); local != nil {
		if !d.announcedBlackjack && game.IsBlackjack(local.Hand) {
			d.announcedBlackjack = true
			blackjack = true
		}
		if entering(game.PhaseResult) {
			result = local.Result
		}
	}

	// The very first snapshot after startup or reconnect describes a table
	// that already exists; replaying deal and chip sounds for it would
	// duplicate cues the player already heard.
	first := d.firstSnapshot
	d.firstSnapshot = false

	shuffle := entering(game.PhaseShuffling)
	d.mu.Unlock()

	if first {
		return
	}

	if shuffle {
		d.sched.ShuffleStarted()
	}
	for i := 0; i < newCards; i++ {
		d.sched.CardDealt()
	}
	if raisedBet {
		d.sched.ChipPlaced()
	}
	if blackjack {
		d.sched.BlackjackAchieved()
	}
	switch result {
	case game.ResultWin:
		d.sched.RoundWon()
	case game.ResultBlackjack:
		// The fanfare already played when the natural appeared
		d.sched.RoundWon()
	case game.ResultLose, game.ResultBust:
		d.sched.RoundLost()
	}
}

func (d *Director) markHandLocked(hand game.Hand, newCards *int) {
	for _, c := range hand {
		if c.ID == "" || d.seenCards[c.ID] {
			continue
		}
		d.seenCards[c.ID] = true
		*newCards++
	}
}
