package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/bilive-keeper/internal/domain"
)

func newRoomCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Manage event room candidates",
	}

	cmd.AddCommand(
		newRoomAddCmd(app),
		newRoomRemoveCmd(app),
		newRoomListCmd(app),
	)

	return cmd
}

func newRoomAddCmd(app *app) *cobra.Command {
	var roomID string
	var label string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a room to the event heartbeat set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseRoomID(roomID)
			if err != nil {
				return err
			}

			if err := app.rooms.Save(cmd.Context(), domain.Room{ID: id, Label: label}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added room %d\n", int64(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&roomID, "room", "", "Room ID")
	cmd.Flags().StringVar(&label, "label", "", "Display label")
	_ = cmd.MarkFlagRequired("room")

	return cmd
}

func newRoomRemoveCmd(app *app) *cobra.Command {
	var roomID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a room from the event heartbeat set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseRoomID(roomID)
			if err != nil {
				return err
			}

			return app.rooms.Delete(cmd.Context(), id)
		},
	}

	cmd.Flags().StringVar(&roomID, "room", "", "Room ID")
	_ = cmd.MarkFlagRequired("room")

	return cmd
}

func newRoomListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured event rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rooms, err := app.rooms.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, room := range rooms {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", int64(room.ID), room.Label)
			}

			return nil
		},
	}
}

func parseRoomID(raw string) (domain.RoomID, error) {
	trimmed := strings.TrimSpace(raw)
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("room must be a positive number, got %q", raw)
	}

	return domain.RoomID(n), nil
}
