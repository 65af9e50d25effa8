package service

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

const dieSides = 10

var ErrNoAvailableMoves = errors.New("no available moves")

// Bot is the computer opponent. It keeps only ids and coordinates of the opponent board it was assigned.
type Bot struct {
	difficulty entity.Difficulty
	rnd        *rand.Rand

	board   *entity.Board
	pool    []entity.Coord
	damaged []int
}

func NewBot(difficulty entity.Difficulty, rnd *rand.Rand) *Bot {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
	}

	return &Bot{
		difficulty: difficulty,
		rnd:        rnd,
	}
}

func (that *Bot) Difficulty() entity.Difficulty {
	return that.difficulty
}

// AssignOpponentBoard must be called once per round before the first ChooseMove.
func (that *Bot) AssignOpponentBoard(board *entity.Board) {
	that.release()

	that.board = board
	that.damaged = nil
	that.pool = make([]entity.Coord, 0, board.Width()*board.Height())

	for x := 0; x < board.Width(); x++ {
		for y := 0; y < board.Height(); y++ {
			that.pool = append(that.pool, entity.Coord{X: x, Y: y})
		}
	}

	that.rnd.Shuffle(len(that.pool), func(i, j int) {
		that.pool[i], that.pool[j] = that.pool[j], that.pool[i]
	})
}

// release detaches the bot from ships of a previous board.
func (that *Bot) release() {
	if that.board == nil {
		return
	}

	for _, id := range that.damaged {
		if ship, ok := that.board.Ship(id); ok {
			ship.DetachEngager()
		}
	}
}

// ShipSunk drops the ship from the damaged queue.
func (that *Bot) ShipSunk(shipID int) {
	that.damaged = slices.DeleteFunc(that.damaged, func(id int) bool { return id == shipID })
}

// ChooseMove performs one attack on the assigned board and reports it.
func (that *Bot) ChooseMove() (entity.Shot, error) {
	if that.board == nil {
		return entity.Shot{}, apperror.ErrNotReady
	}

	acquired := that.tryAcquire()

	if ship, ok := that.currentTarget(); ok {
		unconditional := acquired && ship.Hits() == 0
		if unconditional || that.roll() < that.difficulty.ContinueDamagedChance {
			if c, ok := ship.NextSegment(); ok {
				return that.fire(c)
			}
		}
	}

	return that.hunt()
}

// tryAcquire marks a random active ship as the target when nothing is damaged.
func (that *Bot) tryAcquire() bool {
	if that.difficulty.AcquireShipChance <= 0 || len(that.damaged) > 0 {
		return false
	}

	if that.roll() >= that.difficulty.AcquireShipChance {
		return false
	}

	ships := that.board.Ships()
	if len(ships) == 0 {
		return false
	}

	return that.track(ships[that.rnd.Intn(len(ships))])
}

func (that *Bot) currentTarget() (*entity.Ship, bool) {
	for len(that.damaged) > 0 {
		ship, ok := that.board.Ship(that.damaged[0])
		if ok {
			return ship, true
		}
		that.damaged = that.damaged[1:]
	}
	return nil, false
}

// track enqueues the ship unless another engager already follows it.
func (that *Bot) track(ship *entity.Ship) bool {
	if ship.IsEngaged() || slices.Contains(that.damaged, ship.ID) {
		return false
	}

	ship.AttachEngager(that)
	that.damaged = append(that.damaged, ship.ID)

	return true
}

// hunt draws from the shuffled pool, discarding coordinates opened in the meantime.
func (that *Bot) hunt() (entity.Shot, error) {
	for len(that.pool) > 0 {
		c := that.pool[len(that.pool)-1]
		that.pool = that.pool[:len(that.pool)-1]

		if that.board.IsOpened(c.X, c.Y) {
			continue
		}

		return that.fire(c)
	}

	return entity.Shot{}, ErrNoAvailableMoves
}

func (that *Bot) fire(c entity.Coord) (entity.Shot, error) {
	result, err := that.board.Open(c.X, c.Y)
	if err != nil {
		return entity.Shot{}, fmt.Errorf("bot failed to open cell: %w", err)
	}

	shot := entity.Shot{Side: entity.SideBot, X: c.X, Y: c.Y, Result: result}
	if result == entity.Miss {
		return shot, nil
	}

	id, _ := that.board.ShipIDAt(c.X, c.Y)
	if ship, alive := that.board.Ship(id); alive {
		that.track(ship)
	} else {
		shot.Sunk = true
	}

	return shot, nil
}

func (that *Bot) roll() int {
	return that.rnd.Intn(dieSides)
}

// State exports the bot so it can be resumed later against the same board.
func (that *Bot) State() entity.BotState {
	return entity.BotState{
		Difficulty: that.difficulty,
		Pool:       slices.Clone(that.pool),
		Damaged:    slices.Clone(that.damaged),
	}
}

// ResumeBot rebuilds a bot from its exported state and takes over the ships it tracked.
func ResumeBot(state entity.BotState, board *entity.Board, rnd *rand.Rand) *Bot {
	bot := NewBot(state.Difficulty, rnd)
	bot.board = board
	bot.pool = slices.Clone(state.Pool)

	for _, id := range state.Damaged {
		ship, ok := board.Ship(id)
		if !ok || slices.Contains(bot.damaged, id) {
			continue
		}

		ship.AttachEngager(bot)
		bot.damaged = append(bot.damaged, id)
	}

	return bot
}
