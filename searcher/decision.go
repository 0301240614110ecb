package searcher

import (
	"math"
	"sync"

	"github.com/anarcoiris/GamingRL/game"
)

// decision is a search tree node for one position. Checkers transitions
// are deterministic, so decision nodes are the only node kind. Children
// align with the moves slice: children[i] is the node reached by
// moves[i], and moves expand in LegalMoves order, one per visit.
type decision struct {
	sync.RWMutex
	parent   *decision
	player   game.Owner
	hash     game.StateHash
	moves    []game.Move
	children []*decision
	rewards  float64
	visits   float64
}

func newDecision(parent *decision, state game.State) *decision {
	var moves []game.Move
	if !state.Outcome().Terminal() {
		moves = state.LegalMoves()
	}

	return &decision{
		parent:   parent,
		player:   state.Player(),
		hash:     state.Hash(),
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand advances one ply: on a fully expanded node it selects
// the max-UCB child and keeps descending (selected=true); on an
// expandable node it adds the next unexplored child and stops the
// descent; on a terminal node it returns itself. The chosen child
// carries a virtual loss until backup so concurrent simulations spread
// across the tree.
func (d *decision) SelectOrExpand(state game.State) (*decision, game.State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.moves) > len(d.children) { // Expandable node
		child, childState := d.addChild(state)
		child.applyLoss()
		return child, childState, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	return child, state.Play(d.moves[ith]), true
}

func (d *decision) addChild(state game.State) (*decision, game.State) {
	move := d.moves[len(d.children)]
	childState := state.Play(move)
	child := newDecision(d, childState)
	d.children = append(d.children, child)
	return child, childState
}

func (d *decision) pickChild() int {
	if d.visits == 0 {
		panic("node has children but no visits")
	}

	normalizer := CSquared * math.Log(d.visits)

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(normalizer)
		if score == math.Inf(1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

// applyLoss charges a virtual loss. The caller holds the parent's lock,
// not this node's, so it must take its own: another worker may be
// backing up through this node concurrently. Lock ordering stays
// parent then child.
func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

// reverseLoss runs under the node's own lock, held by Backup.
func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision) score(normalizer float64) float64 {
	d.RLock()
	defer d.RUnlock()

	return ucb1(d.rewards, d.visits, normalizer)
}

// Backup reverses the virtual loss and adds the playout reward. Node
// statistics are kept from the perspective of the player who moved into
// the node, so a parent selecting among children maximizes its own
// mover's value.
func (d *decision) Backup(scorer game.Owner, score float64) *decision {
	d.Lock()
	defer d.Unlock()

	perspective := d.player
	if d.parent != nil { // Non-root node
		d.reverseLoss()
		perspective = d.parent.player
	}

	d.rewards += rewardFor(perspective, scorer, score)
	d.visits++

	return d.parent
}

func (d *decision) Visits() float64 {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

// Policy returns child visit counts aligned with the node's move order,
// which is the state's LegalMoves order. Unexplored moves count zero.
func (d *decision) Policy() []float64 {
	d.RLock()
	defer d.RUnlock()

	policy := make([]float64, len(d.moves))
	for i, child := range d.children {
		policy[i] = child.Visits()
	}
	return policy
}
