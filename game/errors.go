package game

import "errors"

var (
	// ErrQueueExhausted is returned when the spawn queue cannot draw a rank.
	ErrQueueExhausted = errors.New("spawn queue exhausted")
	// ErrInvalidCollision reports a collision naming a body that is neither a
	// live piece nor part of the boundary. It means the registry and the
	// engine disagree; the pair is skipped.
	ErrInvalidCollision = errors.New("collision with unknown body")
	// ErrGameOver is returned by spawn requests once the game has ended.
	ErrGameOver = errors.New("game is over")
)
