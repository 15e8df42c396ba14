// Package builder assembles immutable tournament structures through a fluent
// API. Teams and players are registered by name; the builder assigns ids and
// keeps the name registries in mutable staging metadata that is conceptually
// discarded once Build produces the Tournament value.
package builder

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
)

// RosterPlayer is one registered player on a team.
type RosterPlayer struct {
	Name   string
	ID     int
	Rating int
}

// TeamInfo is the staging record for a registered team.
type TeamInfo struct {
	ID      int
	Name    string
	Players []RosterPlayer
}

// Metadata is the mutable staging area used only during construction: league
// and season settings plus the name-to-id registries.
type Metadata struct {
	LeagueName     string
	LeagueTag      string
	SeasonName     string
	CompetitorType string // "lone" or "team"
	Boards         int
	Rounds         int

	Teams   map[string]*TeamInfo
	Players map[string]int
}

const defaultRating = 1500

// Builder constructs a Tournament incrementally. All lookup failures report
// the offending name; the tournament value itself is only produced by Build.
type Builder struct {
	competitors  []int
	rounds       []structure.Round
	scoring      scoring.System
	meta         Metadata
	current      *structure.Round
	nextPlayerID int
	nextTeamID   int
}

// New returns a builder using the given scoring system.
func New(s scoring.System) *Builder {
	return &Builder{
		scoring: s,
		meta: Metadata{
			CompetitorType: "lone",
			Teams:          make(map[string]*TeamInfo),
			Players:        make(map[string]int),
		},
		nextPlayerID: 1,
		nextTeamID:   1,
	}
}

// League records league metadata. competitorType is "lone" or "team".
func (b *Builder) League(name, tag, competitorType string) *Builder {
	b.meta.LeagueName = name
	b.meta.LeagueTag = tag
	b.meta.CompetitorType = competitorType
	return b
}

// Season records season metadata: planned round count and boards per team
// match (0 for individual play).
func (b *Builder) Season(name string, rounds, boards int) *Builder {
	b.meta.SeasonName = name
	b.meta.Rounds = rounds
	b.meta.Boards = boards
	return b
}

// Team registers a team and its players top board first. Player entries may
// repeat across calls; known names keep their ids.
func (b *Builder) Team(name string, players ...RosterPlayer) *Builder {
	team := &TeamInfo{ID: b.nextTeamID, Name: name}
	b.nextTeamID++

	for _, p := range players {
		if p.Rating == 0 {
			p.Rating = defaultRating
		}
		p.ID = b.playerID(p.Name)
		team.Players = append(team.Players, p)
	}

	b.meta.Teams[name] = team
	b.competitors = append(b.competitors, team.ID)
	return b
}

// Player registers a lone player as a competitor.
func (b *Builder) Player(name string) *Builder {
	id := b.playerID(name)
	for _, c := range b.competitors {
		if c == id {
			return b
		}
	}
	b.competitors = append(b.competitors, id)
	return b
}

// Round starts a new round; following Game/Match/AddBye calls attach to it.
func (b *Builder) Round(number int) *Builder {
	r := structure.Round{Number: number}
	b.current = &r
	return b
}

// Game records a single game between two registered players, result from
// white's perspective.
func (b *Builder) Game(whiteName, blackName, result string) error {
	whiteID, ok := b.meta.Players[whiteName]
	if !ok {
		return b.unknownName("player", whiteName, playerNames(b.meta.Players))
	}
	blackID, ok := b.meta.Players[blackName]
	if !ok {
		return b.unknownName("player", blackName, playerNames(b.meta.Players))
	}
	return b.AddGame(whiteID, blackID, result)
}

// Match records a team match between two registered teams, one result string
// per board from the white team's perspective. Colors alternate down the
// board order: the white team has the white pieces on boards 1, 3, 5, ... and
// black on the rest, where the stored result is flipped accordingly.
func (b *Builder) Match(whiteTeam, blackTeam string, results ...string) error {
	white, ok := b.meta.Teams[whiteTeam]
	if !ok {
		return b.unknownName("team", whiteTeam, teamNames(b.meta.Teams))
	}
	black, ok := b.meta.Teams[blackTeam]
	if !ok {
		return b.unknownName("team", blackTeam, teamNames(b.meta.Teams))
	}

	boards := make([]structure.BoardResult, 0, len(results))
	for i, result := range results {
		if i >= len(white.Players) || i >= len(black.Players) {
			break
		}
		parsed, err := structure.ParseGameResult(result)
		if err != nil {
			return err
		}

		if i%2 == 0 {
			boards = append(boards, structure.BoardResult{
				Player1ID: white.Players[i].ID,
				Player2ID: black.Players[i].ID,
				Result:    parsed,
			})
		} else {
			// White team plays black on this board: swap seats and
			// flip the stored result back to team1's perspective.
			boards = append(boards, structure.BoardResult{
				Player1ID: black.Players[i].ID,
				Player2ID: white.Players[i].ID,
				Result:    parsed.Reversed(),
			})
		}
	}

	return b.AddTeamMatch(white.ID, black.ID, boards)
}

// AddGame attaches a single-game match by player ids.
func (b *Builder) AddGame(player1ID, player2ID int, result string) error {
	if b.current == nil {
		return fmt.Errorf("must start a round before adding games")
	}
	parsed, err := structure.ParseGameResult(result)
	if err != nil {
		return err
	}
	*b.current = b.current.WithMatch(structure.NewSingleGameMatch(player1ID, player2ID, parsed))
	return nil
}

// AddTeamMatch attaches a team match by team ids with board results already
// in team1-first order.
func (b *Builder) AddTeamMatch(team1ID, team2ID int, boards []structure.BoardResult) error {
	if b.current == nil {
		return fmt.Errorf("must start a round before adding matches")
	}

	match := structure.NewTeamMatchWithRoster(team1ID, team2ID, boards, b.rosterMap())
	*b.current = b.current.WithMatch(match)
	return nil
}

// AddBye attaches a bye for a competitor in the current round.
func (b *Builder) AddBye(competitorID, gamesPerMatch int) error {
	if b.current == nil {
		return fmt.Errorf("must start a round before adding byes")
	}
	*b.current = b.current.WithMatch(structure.NewByeMatch(competitorID, gamesPerMatch))
	return nil
}

// AutoByes adds a bye for every competitor that has not played in the
// current round.
func (b *Builder) AutoByes(gamesPerMatch int) error {
	if b.current == nil {
		return fmt.Errorf("must start a round before adding byes")
	}

	played := make(map[int]struct{})
	for _, m := range b.current.Matches {
		played[m.Competitor1ID] = struct{}{}
		if m.Competitor2ID != structure.NoCompetitor {
			played[m.Competitor2ID] = struct{}{}
		}
	}

	for _, c := range b.competitors {
		if _, ok := played[c]; !ok {
			if err := b.AddBye(c, gamesPerMatch); err != nil {
				return err
			}
		}
	}
	return nil
}

// Complete finishes the current round, auto-assigning byes (with the season
// board count for team leagues) and appending the round to the tournament.
func (b *Builder) Complete() error {
	if b.current == nil {
		return fmt.Errorf("no round in progress")
	}
	games := 1
	if b.meta.Boards > 0 {
		games = b.meta.Boards
	}
	if err := b.AutoByes(games); err != nil {
		return err
	}
	b.rounds = append(b.rounds, *b.current)
	b.current = nil
	return nil
}

// Build returns the assembled immutable Tournament. An unfinished round is
// included as-is.
func (b *Builder) Build() structure.Tournament {
	rounds := make([]structure.Round, len(b.rounds))
	copy(rounds, b.rounds)
	if b.current != nil {
		rounds = append(rounds, *b.current)
	}
	competitors := make([]int, len(b.competitors))
	copy(competitors, b.competitors)
	return structure.Tournament{
		Competitors: competitors,
		Rounds:      rounds,
		Scoring:     b.scoring,
		Format:      structure.FormatSwiss,
	}
}

// Metadata exposes the staging registries, mainly for converters and tests.
func (b *Builder) Metadata() Metadata {
	return b.meta
}

func (b *Builder) playerID(name string) int {
	if id, ok := b.meta.Players[name]; ok {
		return id
	}
	id := b.nextPlayerID
	b.nextPlayerID++
	b.meta.Players[name] = id
	return id
}

func (b *Builder) rosterMap() map[int]int {
	roster := make(map[int]int)
	for _, team := range b.meta.Teams {
		for _, p := range team.Players {
			roster[p.ID] = team.ID
		}
	}
	return roster
}

// unknownName builds a lookup error naming the offender, with a fuzzy
// nearest-name suggestion when the registry has a close match.
func (b *Builder) unknownName(kind, name string, known []string) error {
	matches := fuzzy.RankFindNormalizedFold(name, known)
	if len(matches) > 0 {
		best := matches[0]
		for _, m := range matches[1:] {
			if m.Distance < best.Distance {
				best = m
			}
		}
		return fmt.Errorf("%s not found: %q (did you mean %q?)", kind, name, best.Target)
	}
	return fmt.Errorf("%s not found: %q", kind, name)
}

func playerNames(players map[string]int) []string {
	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	return names
}

func teamNames(teams map[string]*TeamInfo) []string {
	names := make([]string, 0, len(teams))
	for name := range teams {
		names = append(names, name)
	}
	return names
}
