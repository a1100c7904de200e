package domain

import (
	"fmt"
	"strings"

	"github.com/ougirez/canlotto/internal/pkg/constants"
)

type Year = int

type GameName string

const (
	GameLottoMax     GameName = "lottomax"
	GameDailyGrand   GameName = "dailygrand"
	GameSixFortyNine GameName = "sixfortynine"
)

var gameIDs = map[GameName]int32{
	GameLottoMax:     1,
	GameDailyGrand:   2,
	GameSixFortyNine: 3,
}

var gameTitles = map[GameName]string{
	GameLottoMax:     "Lotto Max",
	GameDailyGrand:   "Daily Grand",
	GameSixFortyNine: "Lotto 6/49",
}

var gameAliases = map[string]GameName{
	"lottomax":     GameLottoMax,
	"lotto-max":    GameLottoMax,
	"dailygrand":   GameDailyGrand,
	"daily-grand":  GameDailyGrand,
	"sixfortynine": GameSixFortyNine,
	"6-49":         GameSixFortyNine,
	"649":          GameSixFortyNine,
}

func Games() []GameName {
	return []GameName{GameLottoMax, GameDailyGrand, GameSixFortyNine}
}

func ParseGameName(s string) (GameName, error) {
	g, ok := gameAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%q: %w", s, constants.ErrUnknownGame)
	}
	return g, nil
}

// ID is the fixed game_id stored next to every draw of the game.
func (g GameName) ID() int32 {
	return gameIDs[g]
}

func (g GameName) Title() string {
	if t, ok := gameTitles[g]; ok {
		return t
	}
	return string(g)
}

// Game is a row of the games registry.
type Game struct {
	ID    int32   `db:"id"`
	Name  string  `db:"name"`
	Years []int32 `db:"years"`
}

func (g *Game) YearList() []Year {
	years := make([]Year, 0, len(g.Years))
	for _, y := range g.Years {
		years = append(years, Year(y))
	}
	return years
}

type Region string

const (
	RegionAtlantic        Region = "atlantic"
	RegionBritishColumbia Region = "britishColumbia"
	RegionOntario         Region = "ontario"
	RegionQuebec          Region = "quebec"
	RegionWesternCanada   Region = "westernCanada"
)

func Regions() []Region {
	return []Region{RegionAtlantic, RegionBritishColumbia, RegionOntario, RegionQuebec, RegionWesternCanada}
}

func ParseRegion(s string) (Region, error) {
	for _, r := range Regions() {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("region %q is invalid: %w", s, constants.ErrBadRequest)
}
