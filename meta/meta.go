// meta/meta.go
package meta

// GO_ROUTINES defines the number of goroutines to use for MCTS.
const GO_ROUTINES = 8

// EPISODES defines the number of episodes per MCTS move search.
const EPISODES = 200

// CUTOFF defines the rollout depth cutoff for MCTS.
const CUTOFF = 100

// DEPTH defines the default minimax search depth.
const DEPTH = 3

// EVAL_GAMES defines the number of games per training evaluation.
const EVAL_GAMES = 20
