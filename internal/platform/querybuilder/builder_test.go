package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("tournaments").
		Where(Eq("sport", "cricket"), IsNull("deleted_at")).
		OrderBy("start_date DESC", "id").
		Limit(10).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM tournaments WHERE sport = $1 AND deleted_at IS NULL ORDER BY start_date DESC, id LIMIT 10 OFFSET 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "cricket" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("id", "name").
		Values("u1", "name-1").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (id, name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != "name-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("match_sheets").
		Set("name", "new").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "u1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE match_sheets SET name = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "new" || args[1] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_Pagination(t *testing.T) {
	query, args, err := Select("*").
		From("matches").
		Where(IsNull("deleted_at"), Eq("sport", "cricket")).
		OrderBy("scheduled_at DESC", "public_id").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM matches WHERE deleted_at IS NULL AND sport = $1 ORDER BY scheduled_at DESC, public_id LIMIT 20 OFFSET 40"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "cricket" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("team_players").
		Where(Eq("team_id", "t1"), In("player_id", []any{"p1", "p2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM team_players WHERE team_id = $1 AND player_id IN ($2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("teams").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without where")
	}
}

func TestUpsertModel(t *testing.T) {
	type row struct {
		Kind       string `db:"kind"`
		NaturalKey string `db:"natural_key"`
		Payload    []byte `db:"payload"`
		skipped    string
	}

	query, args, err := UpsertModel("sport_resources", row{Kind: "team", NaturalKey: "team:42", Payload: []byte("{}")}, "kind", "natural_key")
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO sport_resources (kind, natural_key, payload) VALUES ($1, $2, $3) ON CONFLICT (kind, natural_key) DO UPDATE SET payload = EXCLUDED.payload"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_OnConflictDoNothing(t *testing.T) {
	query, _, err := InsertInto("team_players").
		Columns("team_public_id", "player_public_id").
		Values("t1", "p1").
		OnConflict("team_public_id", "player_public_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO team_players (team_public_id, player_public_id) VALUES ($1, $2) ON CONFLICT (team_public_id, player_public_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}

	if _, _, err := InsertInto("team_players").Columns("a").Values(1).DoUpdate("a").ToSQL(); err == nil {
		t.Fatalf("expected error for update columns without conflict target")
	}
}

func TestModelHelpers_RejectBadModels(t *testing.T) {
	type noColumns struct {
		Name string
	}
	var nilModel *noColumns

	if _, _, err := InsertModel("players", nilModel); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, _, err := InsertModel("players", "player"); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	if _, _, err := InsertModel("players", noColumns{Name: "x"}); err == nil {
		t.Fatalf("expected error for model without db tags")
	}
	if _, _, err := UpsertModel("players", struct {
		ID string `db:"id"`
	}{ID: "1"}); err == nil {
		t.Fatalf("expected error for upsert without conflict columns")
	}
}
