package scorecard

// DismissalKind is the stable code behind a dismissal reference row.
type DismissalKind string

const (
	DismissalBowled           DismissalKind = "bowled"
	DismissalCaught           DismissalKind = "caught"
	DismissalLBW              DismissalKind = "lbw"
	DismissalStumped          DismissalKind = "stumped"
	DismissalHitWicket        DismissalKind = "hit_wicket"
	DismissalRunOut           DismissalKind = "run_out"
	DismissalRetiredHurt      DismissalKind = "retired_hurt"
	DismissalRetiredOut       DismissalKind = "retired_out"
	DismissalTimedOut         DismissalKind = "timed_out"
	DismissalObstructingField DismissalKind = "obstructing_field"
	DismissalHitBallTwice     DismissalKind = "hit_ball_twice"
)

// DismissalType is one row of the dismissal reference table.
type DismissalType struct {
	ID   string
	Name string
	Kind DismissalKind
}

type FieldingCredit string

const (
	FieldingNone     FieldingCredit = ""
	FieldingCatch    FieldingCredit = "catch"
	FieldingStumping FieldingCredit = "stumping"
	FieldingRunOut   FieldingCredit = "run_out"
)

// Rule lists the counters one delivery updates. Deliveries without a wicket
// use NoWicketRule.
type Rule struct {
	CreditBatterRuns bool
	CountBatterBall  bool
	CountBowlerBall  bool
	CreditBowler     bool
	CountTeamWicket  bool
	BatterOut        bool
	Fielding         FieldingCredit
	RequiresFielder  bool

	// OnWide and OnNoBall mark the dismissals still possible off an
	// illegal delivery.
	OnWide   bool
	OnNoBall bool

	// BetweenBalls dismissals happen with no ball bowled. They carry no
	// runs and do not count as a delivery.
	BetweenBalls bool
}

var NoWicketRule = Rule{
	CreditBatterRuns: true,
	CountBatterBall:  true,
	CountBowlerBall:  true,
	OnWide:           true,
	OnNoBall:         true,
}

// DismissalRules is the audit table for every supported dismissal.
var DismissalRules = map[DismissalKind]Rule{
	DismissalBowled: {
		CreditBatterRuns: true, CountBatterBall: true, CountBowlerBall: true,
		CreditBowler: true, CountTeamWicket: true, BatterOut: true,
	},
	DismissalCaught: {
		CreditBatterRuns: true, CountBatterBall: true, CountBowlerBall: true,
		CreditBowler: true, CountTeamWicket: true, BatterOut: true,
		Fielding: FieldingCatch, RequiresFielder: true,
	},
	DismissalLBW: {
		CreditBatterRuns: true, CountBatterBall: true, CountBowlerBall: true,
		CreditBowler: true, CountTeamWicket: true, BatterOut: true,
	},
	DismissalStumped: {
		CreditBatterRuns: true, CountBatterBall: true, CountBowlerBall: true,
		CreditBowler: true, CountTeamWicket: true, BatterOut: true,
		Fielding: FieldingStumping, RequiresFielder: true,
		OnWide: true,
	},
	DismissalHitWicket: {
		CreditBatterRuns: true, CountBatterBall: true, CountBowlerBall: true,
		CreditBowler: true, CountTeamWicket: true, BatterOut: true,
		OnWide: true,
	},
	DismissalRunOut: {
		CreditBatterRuns: true, CountBatterBall: false, CountBowlerBall: true,
		CountTeamWicket: true, BatterOut: true,
		Fielding: FieldingRunOut,
		OnWide: true, OnNoBall: true,
	},
	DismissalRetiredHurt: {
		BetweenBalls: true,
	},
	DismissalRetiredOut: {
		CountTeamWicket: true, BatterOut: true,
		BetweenBalls: true,
	},
	DismissalTimedOut: {
		CountTeamWicket: true, BatterOut: true,
		BetweenBalls: true,
	},
	DismissalObstructingField: {
		CreditBatterRuns: true, CountBatterBall: true, CountBowlerBall: true,
		CountTeamWicket: true, BatterOut: true,
		OnWide: true, OnNoBall: true,
	},
	DismissalHitBallTwice: {
		CountBatterBall: true, CountBowlerBall: true,
		CountTeamWicket: true, BatterOut: true,
		OnNoBall: true,
	},
}

func RuleFor(kind DismissalKind) (Rule, bool) {
	r, ok := DismissalRules[kind]
	return r, ok
}

// DefaultDismissalTypes is the seeded reference table. IDs are fixed so the
// SQL seed and in-memory repositories agree.
func DefaultDismissalTypes() []DismissalType {
	return []DismissalType{
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000001", Name: "Bowled", Kind: DismissalBowled},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000002", Name: "Caught", Kind: DismissalCaught},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000003", Name: "LBW", Kind: DismissalLBW},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000004", Name: "Stumped", Kind: DismissalStumped},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000005", Name: "Hit Wicket", Kind: DismissalHitWicket},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000006", Name: "Run Out", Kind: DismissalRunOut},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000007", Name: "Retired Hurt", Kind: DismissalRetiredHurt},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000008", Name: "Retired Out", Kind: DismissalRetiredOut},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-000000000009", Name: "Timed Out", Kind: DismissalTimedOut},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-00000000000a", Name: "Obstructing the Field", Kind: DismissalObstructingField},
		{ID: "0b6f3c2e-1d1a-4f51-9f10-00000000000b", Name: "Hit the Ball Twice", Kind: DismissalHitBallTwice},
	}
}
