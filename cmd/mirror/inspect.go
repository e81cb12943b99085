package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository/file"
	"github.com/vedran77/pulse-mirror/internal/repository/memory"
	"github.com/vedran77/pulse-mirror/internal/rtm"
)

const maxEventLine = 4 << 20

var (
	eventsPath string
	verbose    bool
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&eventsPath, "events", "e", "", "newline-delimited events to replay after the snapshot")
	inspectCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log rejected events")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot.json>",
	Short: "Load a snapshot, optionally replay events, and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := zap.NewNop()
		if verbose {
			var err error
			if log, err = zap.NewDevelopment(); err != nil {
				return err
			}
		}
		r, err := inspect(cmd.Context(), args[0], eventsPath, log)
		if err != nil {
			return err
		}
		return r.write(cmd.OutOrStdout(), time.Now())
	},
}

type report struct {
	status  rtm.Status
	team    *domain.Team
	convs   []domain.Conversation
	skipped int
}

func inspect(ctx context.Context, snapshotPath, eventsPath string, log *zap.Logger) (*report, error) {
	snap, err := file.NewSnapshotFile(snapshotPath).Load(ctx)
	if err != nil {
		return nil, err
	}
	store := memory.NewStore()
	session, err := rtm.NewSession(store, snap, rtm.Identity{}, rtm.WithLogger(log))
	if err != nil {
		return nil, err
	}

	r := &report{}
	if eventsPath != "" {
		if r.skipped, err = replay(session, eventsPath); err != nil {
			return nil, err
		}
	}

	r.status = session.Status()
	r.team = store.GetTeamByID(r.status.TeamID)
	r.convs = store.Conversations()
	return r, nil
}

// replay applies every line of path in order and reports how many lines
// were blank.
func replay(session *rtm.Session, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening events: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxEventLine)
	blank := 0
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			blank++
			continue
		}
		_ = session.Apply(line)
	}
	if err := sc.Err(); err != nil {
		return blank, fmt.Errorf("reading events: %w", err)
	}
	return blank, nil
}

func (r *report) write(w io.Writer, now time.Time) error {
	teamName := r.status.TeamID
	if r.team != nil && r.team.Name != "" {
		teamName = r.team.Name
	}
	c := r.status.Counts

	fmt.Fprintf(w, "Workspace %s as %s\n\n", teamName, r.status.UserID)
	fmt.Fprintf(w, "  Users:    %s\n", humanize.Comma(int64(c.Users)))
	fmt.Fprintf(w, "  Channels: %s\n", humanize.Comma(int64(c.Channels)))
	fmt.Fprintf(w, "  Groups:   %s\n", humanize.Comma(int64(c.Groups)))
	fmt.Fprintf(w, "  IMs:      %s\n", humanize.Comma(int64(c.DMs)))
	fmt.Fprintf(w, "  Bots:     %s\n", humanize.Comma(int64(c.Bots)))
	if r.status.Applied+r.status.Rejected > 0 {
		fmt.Fprintf(w, "  Events:   %s applied, %s rejected\n",
			humanize.Comma(int64(r.status.Applied)), humanize.Comma(int64(r.status.Rejected)))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tMEMBERS\tUNREAD\tLATEST")
	for _, conv := range r.convs {
		b := conv.Base()
		name := b.Name
		if dm, ok := conv.(*domain.DM); ok && name == "" {
			name = "@" + dm.User
		}
		if b.IsArchived {
			name += " (archived)"
		}
		latest := "-"
		if b.Latest != nil && b.Latest.TS != "" {
			latest = humanize.RelTime(time.Unix(domain.TSSeconds(b.Latest.TS), 0), now, "ago", "from now")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", conv.Kind(), name, len(b.Members), b.RecalcUnreads(), latest)
	}
	return tw.Flush()
}
