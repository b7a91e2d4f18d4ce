package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mport/typeduel/internal/ws"
)

func newPlayCmd() *cobra.Command {
	var name, friend string
	var wait bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a typing race from the terminal",
		Long: `play connects to the realtime socket and races an opponent.

By default it joins the anonymous queue. With --wait it asks the server for a
shareable ID a friend can join with; with --friend it joins a friend's game
by that ID. Type the passage line by line; each submitted line reports your
progress, and the first player to reach the target score wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dialServer(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			login := ws.LoginPayload{Username: name}
			if name == "" {
				if cfg.Token == "" {
					return fmt.Errorf("--name is required when not logged in")
				}
				login = ws.LoginPayload{Token: cfg.Token}
			}
			if err := send(conn, ws.EventLogin, login); err != nil {
				return err
			}

			switch {
			case friend != "":
				err = send(conn, ws.EventRequestJoinPrivateGame, ws.JoinPrivatePayload{FriendID: friend})
			case wait:
				err = send(conn, ws.EventRequestJoinPrivateGame, ws.JoinPrivatePayload{})
			default:
				err = send(conn, ws.EventRequestJoinGame, nil)
				fmt.Println("Waiting for an opponent...")
			}
			if err != nil {
				return err
			}

			done := make(chan error, 1)
			go readEvents(conn, done)
			go readInput(conn)

			return <-done
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the saved session)")
	cmd.Flags().StringVar(&friend, "friend", "", "Join a friend's game by their shared ID")
	cmd.Flags().BoolVar(&wait, "wait", false, "Request a shareable ID and wait for a friend")

	return cmd
}

// dialServer converts the configured HTTP URL to a websocket URL and connects
func dialServer(serverURL string) (*websocket.Conn, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return conn, nil
}

func send(conn *websocket.Conn, msgType string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = b
	}
	return conn.WriteJSON(ws.Envelope{Type: msgType, Payload: raw})
}

// readEvents prints server directives until the race ends or the connection
// drops
func readEvents(conn *websocket.Conn, done chan<- error) {
	for {
		var env ws.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			done <- fmt.Errorf("connection closed: %w", err)
			return
		}

		switch env.Type {
		case ws.DirectiveLoggedIn:
			var payload ws.LoggedInPayload
			_ = json.Unmarshal(env.Payload, &payload)
			fmt.Printf("Logged in as %s\n", payload.Username)
		case ws.DirectiveWaitForFriend:
			var payload ws.WaitForFriendPayload
			_ = json.Unmarshal(env.Payload, &payload)
			fmt.Printf("Share this ID with a friend: %s\n", payload.ID)
		case ws.DirectiveMatch:
			var payload ws.MatchPayload
			_ = json.Unmarshal(env.Payload, &payload)
			fmt.Printf("Matched against %s. Start typing!\n", payload.OpponentName)
		case ws.DirectiveJoinDenied:
			var payload ws.DeniedPayload
			_ = json.Unmarshal(env.Payload, &payload)
			done <- fmt.Errorf("join denied: %s", payload.Message)
			return
		case ws.DirectiveUpdate:
			var payload ws.UpdatePayload
			_ = json.Unmarshal(env.Payload, &payload)
			fmt.Printf("Opponent progressed (+%d)\n", payload.ScoreDelta)
		case ws.DirectiveWin:
			fmt.Println("You win!")
			done <- nil
			return
		case ws.DirectiveLose:
			fmt.Println("You lose.")
			done <- nil
			return
		}
	}
}

// readInput reports one score update per typed line, scoring a point per word
func readInput(conn *websocket.Conn) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		words := len(strings.Fields(scanner.Text()))
		if words == 0 {
			continue
		}
		if err := send(conn, ws.EventUpdate, ws.UpdatePayload{ScoreDelta: words}); err != nil {
			return
		}
	}
}
