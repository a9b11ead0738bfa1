package usecase

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
)

// Projections reshape raw sports API documents into the public DTOs. Missing
// upstream fields become JSON null; they never fail a projection.

type Ref struct {
	ID        any `json:"id"`
	Name      any `json:"name"`
	ShortName any `json:"shortName,omitempty"`
}

type InningsScore struct {
	Key     string `json:"key"`
	Score   any    `json:"score"`
	Wickets any    `json:"wickets"`
	Overs   any    `json:"overs"`
	RunRate any    `json:"runRate"`
}

type ScoreView struct {
	Current any            `json:"current"`
	Display any            `json:"display"`
	Innings []InningsScore `json:"innings,omitempty"`
}

type EventView struct {
	ID          any       `json:"id"`
	Slug        any       `json:"slug"`
	Tournament  Ref       `json:"tournament"`
	Season      Ref       `json:"season"`
	Status      any       `json:"status"`
	StatusCode  any       `json:"statusCode"`
	StatusType  any       `json:"statusType"`
	Note        any       `json:"note"`
	HomeTeam    Ref       `json:"homeTeam"`
	AwayTeam    Ref       `json:"awayTeam"`
	HomeScore   ScoreView `json:"homeScore"`
	AwayScore   ScoreView `json:"awayScore"`
	WinnerCode  any       `json:"winnerCode"`
	StartTime   any       `json:"startTimestamp"`
	Venue       any       `json:"venue"`
	CurrentBat  any       `json:"currentBattingTeamId,omitempty"`
	HasInnings  bool      `json:"hasInnings"`
	HasLineups  any       `json:"hasLineups"`
	CustomID    any       `json:"customId"`
	LastUpdated any       `json:"changeTimestamp"`
}

type EventListView struct {
	Events      []EventView `json:"events"`
	HasNextPage any         `json:"hasNextPage"`
}

type StandingRow struct {
	Position      any `json:"position"`
	Team          Ref `json:"team"`
	Matches       any `json:"matches"`
	Wins          any `json:"wins"`
	Draws         any `json:"draws"`
	Losses        any `json:"losses"`
	Points        any `json:"points"`
	ScoresFor     any `json:"scoresFor"`
	ScoresAgainst any `json:"scoresAgainst"`
	NetRunRate    any `json:"netRunRate"`
}

type StandingTable struct {
	Name any           `json:"name"`
	Type any           `json:"type"`
	Rows []StandingRow `json:"rows"`
}

type TeamView struct {
	ID        any `json:"id"`
	Name      any `json:"name"`
	ShortName any `json:"shortName"`
	NameCode  any `json:"nameCode"`
	Sport     any `json:"sport"`
	Country   any `json:"country"`
	Manager   any `json:"manager"`
	Venue     any `json:"venue"`
	City      any `json:"city"`
	Color     any `json:"primaryColor"`
	National  any `json:"national"`
}

type PlayerView struct {
	ID           any `json:"id"`
	Name         any `json:"name"`
	ShortName    any `json:"shortName"`
	Position     any `json:"position"`
	JerseyNumber any `json:"jerseyNumber"`
	Height       any `json:"height"`
	DateOfBirth  any `json:"dateOfBirthTimestamp"`
	Country      any `json:"country"`
	Team         Ref `json:"team"`
}

type TournamentView struct {
	ID          any `json:"id"`
	Name        any `json:"name"`
	Slug        any `json:"slug"`
	Category    any `json:"category"`
	Sport       any `json:"sport"`
	TitleHolder Ref `json:"titleHolder"`
	StartDate   any `json:"startDateTimestamp"`
	EndDate     any `json:"endDateTimestamp"`
}

type SeasonView struct {
	ID   any `json:"id"`
	Name any `json:"name"`
	Year any `json:"year"`
}

type SportView struct {
	ID   any `json:"id"`
	Name any `json:"name"`
	Slug any `json:"slug"`
}

type LineupPlayer struct {
	Player      Ref `json:"player"`
	Position    any `json:"position"`
	ShirtNumber any `json:"shirtNumber"`
	Substitute  any `json:"substitute"`
	Captain     any `json:"captain"`
}

type LineupSide struct {
	Formation any            `json:"formation"`
	Players   []LineupPlayer `json:"players"`
}

type LineupsView struct {
	Confirmed any        `json:"confirmed"`
	Home      LineupSide `json:"home"`
	Away      LineupSide `json:"away"`
}

type BattingEntry struct {
	Player    Ref `json:"player"`
	Runs      any `json:"runs"`
	Balls     any `json:"balls"`
	Fours     any `json:"fours"`
	Sixes     any `json:"sixes"`
	Dismissal any `json:"dismissal"`
}

type BowlingEntry struct {
	Player  Ref `json:"player"`
	Overs   any `json:"overs"`
	Maidens any `json:"maidens"`
	Runs    any `json:"runs"`
	Wickets any `json:"wickets"`
}

type InningsView struct {
	Number      any            `json:"number"`
	BattingTeam Ref            `json:"battingTeam"`
	Score       any            `json:"score"`
	Wickets     any            `json:"wickets"`
	Overs       any            `json:"overs"`
	Extras      any            `json:"extras"`
	Batting     []BattingEntry `json:"batting"`
	Bowling     []BowlingEntry `json:"bowling"`
}

type Projector func(raw []byte) (any, error)

var projectors = map[resource.Kind]Projector{
	resource.KindSports:          projectSports,
	resource.KindLiveEvents:      projectEventList,
	resource.KindScheduledEvents: projectEventList,
	resource.KindTeam:            projectTeam,
	resource.KindTeamPlayers:     projectTeamPlayers,
	resource.KindTeamEvents:      projectEventList,
	resource.KindPlayer:          projectPlayer,
	resource.KindPlayerEvents:    projectEventList,
	resource.KindTournament:      projectTournament,
	resource.KindSeasons:         projectSeasons,
	resource.KindStandings:       projectStandings,
	resource.KindSeasonEvents:    projectEventList,
	resource.KindEvent:           projectEvent,
	resource.KindInnings:         projectInnings,
	resource.KindLineups:         projectLineups,
}

// Project applies the projection registered for kind.
func Project(kind resource.Kind, raw []byte) (any, error) {
	fn, ok := projectors[kind]
	if !ok {
		return nil, fmt.Errorf("no projection for kind %q", kind)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("project %s: payload is not valid json", kind)
	}
	return fn(raw)
}

func value(r gjson.Result) any {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return r.Value()
}

func ref(r gjson.Result) Ref {
	return Ref{
		ID:        value(r.Get("id")),
		Name:      value(r.Get("name")),
		ShortName: value(r.Get("shortName")),
	}
}

func nameOf(r gjson.Result) any {
	return value(r.Get("name"))
}

func projectScore(r gjson.Result) ScoreView {
	view := ScoreView{
		Current: value(r.Get("current")),
		Display: value(r.Get("display")),
	}
	innings := r.Get("innings")
	if !innings.IsObject() {
		return view
	}
	innings.ForEach(func(key, inning gjson.Result) bool {
		item := InningsScore{
			Key:     key.String(),
			Score:   value(inning.Get("score")),
			Wickets: value(inning.Get("wickets")),
			Overs:   value(inning.Get("overs")),
			RunRate: value(inning.Get("runRate")),
		}
		if item.RunRate == nil {
			item.RunRate = derivedRunRate(inning.Get("score"), inning.Get("overs"))
		}
		view.Innings = append(view.Innings, item)
		return true
	})
	return view
}

// derivedRunRate computes runs per over from the "x.y" overs notation used
// upstream, rounded to two decimals.
func derivedRunRate(score, overs gjson.Result) any {
	if !score.Exists() || !overs.Exists() {
		return nil
	}
	whole := math.Floor(overs.Float())
	balls := math.Round((overs.Float() - whole) * 10)
	total := whole*6 + balls
	if total <= 0 {
		return nil
	}
	return math.Round(score.Float()/total*6*100) / 100
}

func eventFrom(e gjson.Result) EventView {
	view := EventView{
		ID:          value(e.Get("id")),
		Slug:        value(e.Get("slug")),
		Tournament:  ref(e.Get("tournament.uniqueTournament")),
		Season:      ref(e.Get("season")),
		Status:      value(e.Get("status.description")),
		StatusCode:  value(e.Get("status.code")),
		StatusType:  value(e.Get("status.type")),
		Note:        value(e.Get("note")),
		HomeTeam:    ref(e.Get("homeTeam")),
		AwayTeam:    ref(e.Get("awayTeam")),
		HomeScore:   projectScore(e.Get("homeScore")),
		AwayScore:   projectScore(e.Get("awayScore")),
		WinnerCode:  value(e.Get("winnerCode")),
		StartTime:   value(e.Get("startTimestamp")),
		Venue:       nameOf(e.Get("venue")),
		CurrentBat:  value(e.Get("currentBattingTeamId")),
		HasLineups:  value(e.Get("hasEventPlayerStatistics")),
		CustomID:    value(e.Get("customId")),
		LastUpdated: value(e.Get("changes.changeTimestamp")),
	}
	if view.Tournament.ID == nil {
		view.Tournament = ref(e.Get("tournament"))
	}
	view.HasInnings = len(view.HomeScore.Innings) > 0 || len(view.AwayScore.Innings) > 0
	return view
}

func projectEvent(raw []byte) (any, error) {
	e := gjson.GetBytes(raw, "event")
	if !e.Exists() {
		return nil, nil
	}
	return eventFrom(e), nil
}

func projectEventList(raw []byte) (any, error) {
	doc := gjson.ParseBytes(raw)
	out := EventListView{
		Events:      []EventView{},
		HasNextPage: value(doc.Get("hasNextPage")),
	}
	doc.Get("events").ForEach(func(_, e gjson.Result) bool {
		out.Events = append(out.Events, eventFrom(e))
		return true
	})
	return out, nil
}

func projectStandings(raw []byte) (any, error) {
	tables := []StandingTable{}
	gjson.GetBytes(raw, "standings").ForEach(func(_, table gjson.Result) bool {
		item := StandingTable{
			Name: value(table.Get("name")),
			Type: value(table.Get("type")),
			Rows: []StandingRow{},
		}
		table.Get("rows").ForEach(func(_, row gjson.Result) bool {
			item.Rows = append(item.Rows, StandingRow{
				Position:      value(row.Get("position")),
				Team:          ref(row.Get("team")),
				Matches:       value(row.Get("matches")),
				Wins:          value(row.Get("wins")),
				Draws:         value(row.Get("draws")),
				Losses:        value(row.Get("losses")),
				Points:        value(row.Get("points")),
				ScoresFor:     value(row.Get("scoresFor")),
				ScoresAgainst: value(row.Get("scoresAgainst")),
				NetRunRate:    value(row.Get("netRunRate")),
			})
			return true
		})
		tables = append(tables, item)
		return true
	})
	return tables, nil
}

func projectTeam(raw []byte) (any, error) {
	t := gjson.GetBytes(raw, "team")
	if !t.Exists() {
		return nil, nil
	}
	return TeamView{
		ID:        value(t.Get("id")),
		Name:      value(t.Get("name")),
		ShortName: value(t.Get("shortName")),
		NameCode:  value(t.Get("nameCode")),
		Sport:     value(t.Get("sport.slug")),
		Country:   nameOf(t.Get("country")),
		Manager:   nameOf(t.Get("manager")),
		Venue:     nameOf(t.Get("venue")),
		City:      value(t.Get("venue.city.name")),
		Color:     value(t.Get("teamColors.primary")),
		National:  value(t.Get("national")),
	}, nil
}

func playerFrom(p gjson.Result) PlayerView {
	return PlayerView{
		ID:           value(p.Get("id")),
		Name:         value(p.Get("name")),
		ShortName:    value(p.Get("shortName")),
		Position:     value(p.Get("position")),
		JerseyNumber: value(p.Get("jerseyNumber")),
		Height:       value(p.Get("height")),
		DateOfBirth:  value(p.Get("dateOfBirthTimestamp")),
		Country:      nameOf(p.Get("country")),
		Team:         ref(p.Get("team")),
	}
}

func projectPlayer(raw []byte) (any, error) {
	p := gjson.GetBytes(raw, "player")
	if !p.Exists() {
		return nil, nil
	}
	return playerFrom(p), nil
}

func projectTeamPlayers(raw []byte) (any, error) {
	out := []PlayerView{}
	gjson.GetBytes(raw, "players").ForEach(func(_, item gjson.Result) bool {
		p := item.Get("player")
		if !p.Exists() {
			p = item
		}
		out = append(out, playerFrom(p))
		return true
	})
	return out, nil
}

func projectTournament(raw []byte) (any, error) {
	t := gjson.GetBytes(raw, "uniqueTournament")
	if !t.Exists() {
		return nil, nil
	}
	return TournamentView{
		ID:          value(t.Get("id")),
		Name:        value(t.Get("name")),
		Slug:        value(t.Get("slug")),
		Category:    nameOf(t.Get("category")),
		Sport:       value(t.Get("category.sport.slug")),
		TitleHolder: ref(t.Get("titleHolder")),
		StartDate:   value(t.Get("startDateTimestamp")),
		EndDate:     value(t.Get("endDateTimestamp")),
	}, nil
}

func projectSeasons(raw []byte) (any, error) {
	out := []SeasonView{}
	gjson.GetBytes(raw, "seasons").ForEach(func(_, s gjson.Result) bool {
		out = append(out, SeasonView{
			ID:   value(s.Get("id")),
			Name: value(s.Get("name")),
			Year: value(s.Get("year")),
		})
		return true
	})
	return out, nil
}

func projectSports(raw []byte) (any, error) {
	doc := gjson.ParseBytes(raw)
	list := doc.Get("sports")
	if !list.Exists() && doc.IsArray() {
		list = doc
	}
	out := []SportView{}
	list.ForEach(func(_, s gjson.Result) bool {
		out = append(out, SportView{
			ID:   value(s.Get("id")),
			Name: value(s.Get("name")),
			Slug: value(s.Get("slug")),
		})
		return true
	})
	return out, nil
}

func lineupSide(side gjson.Result) LineupSide {
	out := LineupSide{
		Formation: value(side.Get("formation")),
		Players:   []LineupPlayer{},
	}
	side.Get("players").ForEach(func(_, p gjson.Result) bool {
		out.Players = append(out.Players, LineupPlayer{
			Player:      ref(p.Get("player")),
			Position:    value(p.Get("position")),
			ShirtNumber: value(p.Get("shirtNumber")),
			Substitute:  value(p.Get("substitute")),
			Captain:     value(p.Get("captain")),
		})
		return true
	})
	return out
}

func projectLineups(raw []byte) (any, error) {
	doc := gjson.ParseBytes(raw)
	return LineupsView{
		Confirmed: value(doc.Get("confirmed")),
		Home:      lineupSide(doc.Get("home")),
		Away:      lineupSide(doc.Get("away")),
	}, nil
}

func projectInnings(raw []byte) (any, error) {
	out := []InningsView{}
	gjson.GetBytes(raw, "innings").ForEach(func(_, in gjson.Result) bool {
		view := InningsView{
			Number:      value(in.Get("number")),
			BattingTeam: ref(in.Get("battingTeam")),
			Score:       value(in.Get("score")),
			Wickets:     value(in.Get("wickets")),
			Overs:       value(in.Get("overs")),
			Extras:      value(in.Get("extra")),
			Batting:     []BattingEntry{},
			Bowling:     []BowlingEntry{},
		}
		in.Get("battingLine").ForEach(func(_, b gjson.Result) bool {
			view.Batting = append(view.Batting, BattingEntry{
				Player:    ref(b.Get("player")),
				Runs:      value(b.Get("score")),
				Balls:     value(b.Get("balls")),
				Fours:     value(b.Get("s4")),
				Sixes:     value(b.Get("s6")),
				Dismissal: value(b.Get("wicketTypeName")),
			})
			return true
		})
		in.Get("bowlingLine").ForEach(func(_, b gjson.Result) bool {
			view.Bowling = append(view.Bowling, BowlingEntry{
				Player:  ref(b.Get("player")),
				Overs:   value(b.Get("over")),
				Maidens: value(b.Get("maiden")),
				Runs:    value(b.Get("run")),
				Wickets: value(b.Get("wicket")),
			})
			return true
		})
		out = append(out, view)
		return true
	})
	return out, nil
}
