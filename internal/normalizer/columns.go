package normalizer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"salesclean/internal/models"
)

// ErrColumnCollision is returned when two raw columns normalize to the same name
// under the fail policy.
var ErrColumnCollision = errors.New("column name collision")

// ErrInvalidCollisionPolicy is returned for an unknown policy name.
var ErrInvalidCollisionPolicy = errors.New("collision policy must be one of: fail, last_wins")

// CollisionPolicy decides what happens when normalized column names collide.
type CollisionPolicy string

// Collision policies.
const (
	CollisionFail     CollisionPolicy = "fail"
	CollisionLastWins CollisionPolicy = "last_wins"
)

// ParseCollisionPolicy maps a config string to a policy. Empty means fail.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CollisionFail:
		return CollisionFail, nil
	case CollisionLastWins:
		return CollisionLastWins, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCollisionPolicy, s)
	}
}

// Collision records raw column names that share one normalized name.
type Collision struct {
	Name    string
	Sources []string
}

// CollisionError reports the first collision met under the fail policy.
type CollisionError struct {
	Collision
}

func (e *CollisionError) Error() string {
	quoted := make([]string, len(e.Sources))
	for i, s := range e.Sources {
		quoted[i] = fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%s: %s all normalize to %q", ErrColumnCollision, strings.Join(quoted, ", "), e.Name)
}

func (e *CollisionError) Unwrap() error {
	return ErrColumnCollision
}

// NormalizeColumnName lowercases, trims surrounding whitespace and replaces
// spaces with underscores. Other punctuation is kept.
func NormalizeColumnName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(name)), " ", "_")
}

func unnamedColumn(i int) string {
	return NormalizeColumnName("Unnamed: " + strconv.Itoa(i))
}

// NormalizeColumns renames every column to its canonical form. Rows keep their
// order. A blank header becomes the canonical form of "Unnamed: <i>", the name
// the loader gives an empty header, so the result reads back unchanged. Under CollisionLastWins a repeated name keeps the position of its first
// occurrence and the values and kind of its last one.
func NormalizeColumns(ds *models.Dataset, policy CollisionPolicy) (*models.Dataset, []Collision, error) {
	var (
		order   []string
		sources = make(map[string][]string, len(ds.Columns))
		winner  = make(map[string]models.Column, len(ds.Columns))
	)

	for i, c := range ds.Columns {
		name := NormalizeColumnName(c.Name)
		if name == "" {
			name = unnamedColumn(i)
		}

		if _, seen := sources[name]; !seen {
			order = append(order, name)
		}

		sources[name] = append(sources[name], c.Name)
		winner[name] = c
	}

	var collisions []Collision

	for _, name := range order {
		if len(sources[name]) < 2 {
			continue
		}

		col := Collision{Name: name, Sources: sources[name]}
		if policy != CollisionLastWins {
			return nil, nil, &CollisionError{Collision: col}
		}

		collisions = append(collisions, col)
	}

	cols := make([]models.Column, len(order))
	for i, name := range order {
		cols[i] = models.Column{Name: name, Kind: winner[name].Kind}
	}

	out := models.NewDataset(cols)
	out.Rows = make([]models.Row, len(ds.Rows))

	for i, r := range ds.Rows {
		row := make(models.Row, len(cols))
		for _, name := range order {
			row[name] = r.Get(winner[name].Name)
		}

		out.Rows[i] = row
	}

	return out, collisions, nil
}
