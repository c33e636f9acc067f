package onirim

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Card class constants
const (
	Dream     Class = iota // nightmares
	Door                   // doors, one pair per colour
	Labyrinth              // the cards played to the row
)

// Card colour constants
const (
	NoColor Color = iota
	Red
	Blue
	Green
	Brown
)

// Card symbol constants
const (
	NoSymbol Symbol = iota
	Key
	Sun
	Moon
)

type Class uint8
type Color uint8
type Symbol uint8

var classNames = map[Class]string{
	Dream:     "Nightmare",
	Door:      "Door",
	Labyrinth: "Labyrinth",
}

var colorNames = map[Color]string{
	NoColor: "",
	Red:     "Red",
	Blue:    "Blue",
	Green:   "Green",
	Brown:   "Brown",
}

var symbolNames = map[Symbol]string{
	NoSymbol: "",
	Key:      "Key",
	Sun:      "Sun",
	Moon:     "Moon",
}

var classKeys = map[byte]Class{'D': Dream, 'R': Door, 'L': Labyrinth}
var colorKeys = map[byte]Color{'R': Red, 'B': Blue, 'G': Green, 'Y': Brown}
var symbolKeys = map[byte]Symbol{'K': Key, 'S': Sun, 'M': Moon}

func (c Class) String() string  { return classNames[c] }
func (c Color) String() string  { return colorNames[c] }
func (s Symbol) String() string { return symbolNames[s] }

// Card is a decoded board card key.
type Card struct {
	class  Class
	color  Color
	symbol Symbol
}

// ParseCard decodes a card key as the server writes it:
// "DN" for a nightmare, "R"+colour for a door and "L"+colour+symbol for a
// labyrinth card. Colours are R, B, G and Y (brown); symbols K, S and M.
func ParseCard(key string) (Card, error) {
	if len(key) < 2 {
		return Card{}, fmt.Errorf("invalid card key %q", key)
	}
	class, ok := classKeys[key[0]]
	if !ok {
		return Card{}, fmt.Errorf("invalid card class in %q", key)
	}
	switch class {
	case Dream:
		if key != "DN" {
			return Card{}, fmt.Errorf("invalid nightmare key %q", key)
		}
		return Card{class: Dream}, nil
	case Door:
		color, ok := colorKeys[key[1]]
		if !ok || len(key) != 2 {
			return Card{}, fmt.Errorf("invalid door key %q", key)
		}
		return Card{class: Door, color: color}, nil
	default:
		if len(key) != 3 {
			return Card{}, fmt.Errorf("invalid labyrinth key %q", key)
		}
		color, ok := colorKeys[key[1]]
		if !ok {
			return Card{}, fmt.Errorf("invalid card colour in %q", key)
		}
		symbol, ok := symbolKeys[key[2]]
		if !ok {
			return Card{}, fmt.Errorf("invalid card symbol in %q", key)
		}
		return Card{class: Labyrinth, color: color, symbol: symbol}, nil
	}
}

func (c Card) Class() Class   { return c.class }
func (c Card) Color() Color   { return c.color }
func (c Card) Symbol() Symbol { return c.symbol }

// Name returns an uncoloured description such as "Red Sun" or "Blue Door".
func (c Card) Name() string {
	switch c.class {
	case Dream:
		return "Nightmare"
	case Door:
		return c.color.String() + " Door"
	default:
		return c.color.String() + " " + c.symbol.String()
	}
}

// String returns Name coloured for the terminal.
func (c Card) String() string {
	switch c.color {
	case Red:
		return pterm.LightRed(c.Name())
	case Blue:
		return pterm.LightBlue(c.Name())
	case Green:
		return pterm.LightGreen(c.Name())
	case Brown:
		return pterm.Yellow(c.Name())
	default:
		return pterm.Magenta(c.Name())
	}
}

// DescribeCards decodes a pile of keys. Keys that cannot be decoded are
// kept verbatim so a newer server never hides cards from the player.
func DescribeCards(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		c, err := ParseCard(k)
		if err != nil {
			out = append(out, k)
			continue
		}
		out = append(out, c.String())
	}
	return out
}
