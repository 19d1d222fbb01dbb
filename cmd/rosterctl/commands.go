package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/festy23/buildathon_roster/internal/health"
	"github.com/festy23/buildathon_roster/internal/roster/model"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"import-csv":         {"replace the roster with a registration survey export", importCSV},
	"export-backup":      {"write a JSON backup of the whole roster", exportBackup},
	"restore-backup":     {"replace the roster with a JSON backup", restoreBackup},
	"export-checkins":    {"write the checked-in accounting CSV", exportCheckins},
	"add-participant":    {"register a participant", addParticipant},
	"update-participant": {"edit participant details", updateParticipant},
	"delete-participant": {"remove a participant", deleteParticipant},
	"create-team":        {"create a team with a leader and optional members", createTeam},
	"set-members":        {"set the members of a team", setMembers},
	"recruitment":        {"update whether a team seeks members", recruitment},
	"add-member":         {"add a participant to a team", addMember},
	"remove-member":      {"remove a member from a team", removeMember},
	"change-lead":        {"make a member the team lead", changeLead},
	"delete-team":        {"delete a team and free its members", deleteTeam},
	"renumber":           {"renumber teams Team 1..Team N", renumber},
	"migrate-names":      {"rewrite legacy team names", migrateNames},
	"checkin":            {"check a participant in", checkin},
	"undo-checkin":       {"clear a participant's check-in", undoCheckin},
	"stats":              {"show registration statistics", stats},
	"list":               {"list participants, teams or check-ins", list},
	"status":             {"check the store and show collection sizes", status},
	"verify":             {"report roster inconsistencies", verify},
}

var errInconsistent = errors.New("roster is inconsistent")

func newFlagSet(name string, a *app) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("-%s is required", name)
	}
	return nil
}

func confirm(yes bool, action string) error {
	if !yes {
		return fmt.Errorf("refusing to %s without -yes", action)
	}
	return nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// visited reports which flags were set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func openInput(a *app, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(a.in), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

func writeOutput(a *app, path string, data []byte) error {
	if path == "-" {
		if _, err := a.out.Write(data); err != nil {
			return err
		}
		_, err := io.WriteString(a.out, "\n")
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func importCSV(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("import-csv", a)
	file := fs.String("file", "", "survey CSV export, - for stdin")
	yes := fs.Bool("yes", false, "confirm replacing all participants, teams and check-ins")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("file", *file); err != nil {
		return err
	}
	if err := confirm(*yes, "replace the roster"); err != nil {
		return err
	}

	r, err := openInput(a, *file)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	result, err := a.importer.Import(ctx, r)
	if err != nil {
		return fmt.Errorf("import-csv: %w", err)
	}
	return printJSON(a.out, result.Diagnostics)
}

func exportBackup(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("export-backup", a)
	out := fs.String("out", "-", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := a.backup.Export(ctx)
	if err != nil {
		return fmt.Errorf("export-backup: %w", err)
	}
	return writeOutput(a, *out, data)
}

func restoreBackup(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("restore-backup", a)
	file := fs.String("file", "", "backup JSON, - for stdin")
	yes := fs.Bool("yes", false, "confirm replacing all participants, teams and check-ins")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("file", *file); err != nil {
		return err
	}
	if err := confirm(*yes, "restore a backup"); err != nil {
		return err
	}

	r, err := openInput(a, *file)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	summary, err := a.backup.Import(ctx, data)
	if err != nil {
		return fmt.Errorf("restore-backup: %w", err)
	}
	return printJSON(a.out, summary)
}

func exportCheckins(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("export-checkins", a)
	out := fs.String("out", "-", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := a.backup.ExportCheckedInCSV(ctx)
	if err != nil {
		return fmt.Errorf("export-checkins: %w", err)
	}
	return writeOutput(a, *out, data)
}

func addParticipant(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add-participant", a)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	college := fs.String("college", "", "college")
	experience := fs.String("experience", "", "AI experience level")
	theme := fs.String("theme", "", "theme preference")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("name", *name); err != nil {
		return err
	}

	p, err := a.roster.AddParticipant(ctx, model.NewParticipant{
		Name:            *name,
		Email:           *email,
		College:         *college,
		ExperienceLevel: *experience,
		ThemePreference: *theme,
	})
	if err != nil {
		return fmt.Errorf("add-participant: %w", err)
	}
	return printJSON(a.out, p)
}

func updateParticipant(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update-participant", a)
	id := fs.String("id", "", "participant id")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	college := fs.String("college", "", "college")
	experience := fs.String("experience", "", "AI experience level")
	theme := fs.String("theme", "", "theme preference")
	seeking := fs.Bool("seeking", false, "participant is seeking a team")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}

	set := visited(fs)
	var patch model.ParticipantPatch
	if set["name"] {
		patch.Name = name
	}
	if set["email"] {
		patch.Email = email
	}
	if set["college"] {
		patch.College = college
	}
	if set["experience"] {
		patch.ExperienceLevel = experience
	}
	if set["theme"] {
		patch.ThemePreference = theme
	}
	if set["seeking"] {
		patch.SeekingTeam = seeking
	}

	p, err := a.roster.UpdateParticipant(ctx, *id, patch)
	if err != nil {
		return fmt.Errorf("update-participant: %w", err)
	}
	return printJSON(a.out, p)
}

func deleteParticipant(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-participant", a)
	id := fs.String("id", "", "participant id")
	yes := fs.Bool("yes", false, "confirm deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}
	if err := confirm(*yes, "delete a participant"); err != nil {
		return err
	}

	if err := a.roster.DeleteParticipant(ctx, *id); err != nil {
		return fmt.Errorf("delete-participant: %w", err)
	}
	_, _ = fmt.Fprintf(a.out, "deleted participant %s\n", *id)
	return nil
}

func createTeam(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create-team", a)
	leader := fs.String("leader", "", "leader participant id")
	members := fs.String("members", "", "comma-separated member participant ids")
	college := fs.String("college", "", "college")
	theme := fs.String("theme", "", "theme preference")
	experience := fs.String("experience", "", "collective AI experience")
	seeking := fs.Bool("seeking", false, "team is looking for more members")
	slots := fs.Int("slots", 0, "number of open slots")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("leader", *leader); err != nil {
		return err
	}

	team, err := a.roster.CreateTeam(ctx, model.NewTeam{
		LeaderID:        *leader,
		MemberIDs:       splitIDs(*members),
		College:         *college,
		ThemePreference: *theme,
		ExperienceLevel: *experience,
		SeekingMembers:  *seeking,
		SlotsNeeded:     *slots,
	})
	if err != nil {
		return fmt.Errorf("create-team: %w", err)
	}
	return printJSON(a.out, team)
}

func setMembers(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("set-members", a)
	teamID := fs.String("team", "", "team id")
	members := fs.String("members", "", "comma-separated member participant ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("team", *teamID); err != nil {
		return err
	}

	team, err := a.roster.SetTeamMembers(ctx, *teamID, splitIDs(*members))
	if err != nil {
		return fmt.Errorf("set-members: %w", err)
	}
	return printJSON(a.out, team)
}

func recruitment(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("recruitment", a)
	teamID := fs.String("team", "", "team id")
	seeking := fs.Bool("seeking", false, "team is looking for more members")
	slots := fs.Int("slots", 0, "number of open slots")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("team", *teamID); err != nil {
		return err
	}

	set := visited(fs)
	var update model.RecruitmentUpdate
	if set["seeking"] {
		update.SeekingMembers = seeking
	}
	if set["slots"] {
		update.SlotsNeeded = slots
	}

	team, err := a.roster.UpdateTeamRecruitment(ctx, *teamID, update)
	if err != nil {
		return fmt.Errorf("recruitment: %w", err)
	}
	return printJSON(a.out, team)
}

func teamParticipantFlags(name string, a *app, args []string) (string, string, error) {
	fs := newFlagSet(name, a)
	teamID := fs.String("team", "", "team id")
	participantID := fs.String("participant", "", "participant id")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if err := required("team", *teamID); err != nil {
		return "", "", err
	}
	if err := required("participant", *participantID); err != nil {
		return "", "", err
	}
	return *teamID, *participantID, nil
}

func addMember(ctx context.Context, a *app, args []string) error {
	teamID, participantID, err := teamParticipantFlags("add-member", a, args)
	if err != nil {
		return err
	}

	result, err := a.roster.AddMemberToTeam(ctx, teamID, participantID)
	if err != nil {
		return fmt.Errorf("add-member: %w", err)
	}
	return printJSON(a.out, result)
}

func removeMember(ctx context.Context, a *app, args []string) error {
	teamID, participantID, err := teamParticipantFlags("remove-member", a, args)
	if err != nil {
		return err
	}

	result, err := a.roster.RemoveMemberFromTeam(ctx, teamID, participantID)
	if err != nil {
		return fmt.Errorf("remove-member: %w", err)
	}
	return printJSON(a.out, result)
}

func changeLead(ctx context.Context, a *app, args []string) error {
	teamID, participantID, err := teamParticipantFlags("change-lead", a, args)
	if err != nil {
		return err
	}

	result, err := a.roster.ChangeTeamLead(ctx, teamID, participantID)
	if err != nil {
		return fmt.Errorf("change-lead: %w", err)
	}
	return printJSON(a.out, result)
}

func deleteTeam(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-team", a)
	teamID := fs.String("team", "", "team id")
	yes := fs.Bool("yes", false, "confirm deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("team", *teamID); err != nil {
		return err
	}
	if err := confirm(*yes, "delete a team"); err != nil {
		return err
	}

	result, err := a.roster.DeleteTeam(ctx, *teamID)
	if err != nil {
		return fmt.Errorf("delete-team: %w", err)
	}
	return printJSON(a.out, result)
}

func renumber(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("renumber", a).Parse(args); err != nil {
		return err
	}

	renames, err := a.roster.RenumberTeams(ctx)
	if err != nil {
		return fmt.Errorf("renumber: %w", err)
	}
	return printJSON(a.out, renames)
}

func migrateNames(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("migrate-names", a).Parse(args); err != nil {
		return err
	}

	renames, err := a.roster.MigrateTeamNames(ctx)
	if err != nil {
		return fmt.Errorf("migrate-names: %w", err)
	}
	return printJSON(a.out, renames)
}

func participantFlag(name string, a *app, args []string) (string, error) {
	fs := newFlagSet(name, a)
	id := fs.String("participant", "", "participant id")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *id, required("participant", *id)
}

func checkin(ctx context.Context, a *app, args []string) error {
	id, err := participantFlag("checkin", a, args)
	if err != nil {
		return err
	}

	at, err := a.roster.CheckIn(ctx, id)
	if err != nil {
		return fmt.Errorf("checkin: %w", err)
	}
	return printJSON(a.out, map[string]any{"participantId": id, "checkedInAt": at})
}

func undoCheckin(ctx context.Context, a *app, args []string) error {
	id, err := participantFlag("undo-checkin", a, args)
	if err != nil {
		return err
	}

	if err := a.roster.UndoCheckIn(ctx, id); err != nil {
		return fmt.Errorf("undo-checkin: %w", err)
	}
	_, _ = fmt.Fprintf(a.out, "cleared check-in for %s\n", id)
	return nil
}

func stats(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("stats", a).Parse(args); err != nil {
		return err
	}

	resp, err := a.statistics.GetRegistrationStatistics(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return printJSON(a.out, resp)
}

func list(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("list", a)
	kind := fs.String("kind", "participants", "participants, teams or checkins")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch *kind {
	case "participants":
		participants, err := a.repo.GetAllParticipants(ctx)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		return printJSON(a.out, participants)
	case "teams":
		teams, err := a.repo.GetAllTeams(ctx)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		return printJSON(a.out, teams)
	case "checkins":
		checkins, err := a.repo.GetCheckins(ctx)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		return printJSON(a.out, checkins)
	default:
		return fmt.Errorf("unknown -kind %q", *kind)
	}
}

func status(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("status", a).Parse(args); err != nil {
		return err
	}

	resp := health.New(a.store, a.repo, a.logger).Check(ctx)
	if err := printJSON(a.out, resp); err != nil {
		return err
	}
	if resp.Status != health.StatusOK {
		return fmt.Errorf("store %s is %s", a.cfg.Store.Driver, resp.Status)
	}
	return nil
}

func verify(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("verify", a).Parse(args); err != nil {
		return err
	}

	violations, err := a.roster.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if len(violations) == 0 {
		_, _ = fmt.Fprintln(a.out, "roster is consistent")
		return nil
	}
	if err := printJSON(a.out, violations); err != nil {
		return err
	}
	return fmt.Errorf("%w: %d violations", errInconsistent, len(violations))
}
