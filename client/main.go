package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
)

const (
	MsgTypeHeartbeat   = 1
	MsgTypeCreateRoom  = 101
	MsgTypeJoinRoom    = 102
	MsgTypeLeaveRoom   = 103
	MsgTypeReady       = 104
	MsgTypePlayCard    = 201
	MsgTypeGrabCard    = 202
	MsgTypeSkipRound   = 203
	MsgTypeRoomState   = 301
	MsgTypeGameStarted = 302
	MsgTypeGameSync    = 303
	MsgTypeFineRequest = 304
	MsgTypeGameEnd     = 305
	MsgTypeError       = 306
	MsgTypeHandState   = 307
)

type playerStatus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Ready     bool   `json:"ready"`
	Rank      int    `json:"rank"`
	CardCount int    `json:"card_count"`
	Turn      bool   `json:"turn"`
}

type roomState struct {
	RoomID  string         `json:"room_id"`
	Name    string         `json:"name"`
	Started bool           `json:"started"`
	TopCard string         `json:"top_card"`
	Turn    int            `json:"turn"`
	Flow    int            `json:"flow"`
	Penalty int            `json:"penalty"`
	Players []playerStatus `json:"players"`
}

type cardInfo struct {
	Token   string `json:"token"`
	Display string `json:"display"`
}

type handState struct {
	Cards   []cardInfo `json:"cards"`
	CanSkip bool       `json:"can_skip"`
}

type fineRequest struct {
	Card    string         `json:"card"`
	Targets []playerStatus `json:"targets"`
}

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func sendJSON(c *websocket.Conn, msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return send(c, msgID, data)
}

func printRoomState(state roomState) {
	rows := pterm.TableData{{"Player", "Ready", "Cards", "Rank", "Turn"}}
	for _, p := range state.Players {
		turn := ""
		if p.Turn {
			turn = "←"
		}
		ready := ""
		if p.Ready {
			ready = "✓"
		}
		rank := ""
		if p.Rank >= 0 {
			rank = pterm.Sprintf("%d", p.Rank+1)
		}
		rows = append(rows, []string{p.Name, ready, pterm.Sprintf("%d", p.CardCount), rank, turn})
	}

	header := pterm.Sprintf("Room %s (%s)", state.Name, state.RoomID)
	if state.Started {
		header = pterm.Sprintf("%s: top %s, penalty %d", header, state.TopCard, state.Penalty)
	}
	pterm.DefaultSection.Println(header)
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func printHand(hand handState) {
	var cards []string
	for _, c := range hand.Cards {
		cards = append(cards, pterm.Sprintf("%s (%s)", c.Display, c.Token))
	}
	pterm.Info.Printfln("Your hand: %s", strings.Join(cards, "  "))
	if hand.CanSkip {
		pterm.Info.Println("You may 'skip' this turn.")
	}
}

func handleMessage(msgID uint16, data []byte) {
	switch msgID {
	case MsgTypeCreateRoom, MsgTypeRoomState, MsgTypeGameSync:
		var state roomState
		if err := json.Unmarshal(data, &state); err == nil {
			printRoomState(state)
		}
	case MsgTypeGameStarted:
		pterm.Success.Println("Game started!")
		var state roomState
		if err := json.Unmarshal(data, &state); err == nil {
			printRoomState(state)
		}
	case MsgTypeFineRequest:
		var req fineRequest
		if err := json.Unmarshal(data, &req); err == nil {
			var names []string
			for _, t := range req.Targets {
				names = append(names, pterm.Sprintf("%s (%s)", t.Name, t.ID))
			}
			pterm.Warning.Printfln("Pick who pays for your %s: %s", req.Card, strings.Join(names, ", "))
			pterm.Warning.Printfln("Replay with: play %s <player-id>", req.Card)
		}
	case MsgTypeGameEnd:
		pterm.Success.Printfln("Game over: %s", string(data))
	case MsgTypeError:
		var resp map[string]string
		if err := json.Unmarshal(data, &resp); err == nil {
			pterm.Error.Println(resp["error"])
		} else {
			pterm.Error.Println(string(data))
		}
	case MsgTypeHandState:
		var hand handState
		if err := json.Unmarshal(data, &hand); err == nil {
			printHand(hand)
		}
	default:
		pterm.Debug.Printfln("RECV (ID: %d): %s", msgID, string(data))
	}
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	addr := "localhost:8080"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	pterm.Info.Printfln("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		pterm.Fatal.Printfln("Dial failed: %v", err)
	}
	defer c.Close()

	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name").Show()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "anonymous"
	}

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				pterm.Error.Printfln("Read error: %v", err)
				return
			}
			if len(message) < 4 {
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			handleMessage(msgID, message[4:])
		}
	}()

	pterm.Info.Println("Commands: create [room-name] | join <room-id> | ready | unready | play <card> [fined-id] | grab | skip | leave | quit")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(strings.TrimSpace(text))
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "create":
				roomName := "New Room"
				if len(fields) > 1 {
					roomName = strings.Join(fields[1:], " ")
				}
				err = sendJSON(c, MsgTypeCreateRoom, map[string]string{"name": roomName, "player_name": name})
			case "join":
				if len(fields) < 2 {
					pterm.Error.Println("Usage: join <room-id>")
					continue
				}
				err = sendJSON(c, MsgTypeJoinRoom, map[string]string{"room_id": fields[1], "player_name": name})
			case "ready":
				err = sendJSON(c, MsgTypeReady, map[string]bool{"ready": true})
			case "unready":
				err = sendJSON(c, MsgTypeReady, map[string]bool{"ready": false})
			case "play":
				if len(fields) < 2 {
					pterm.Error.Println("Usage: play <card> [fined-id]")
					continue
				}
				req := map[string]string{"card": fields[1]}
				if len(fields) > 2 {
					req["fined_id"] = fields[2]
				}
				err = sendJSON(c, MsgTypePlayCard, req)
			case "grab":
				err = send(c, MsgTypeGrabCard, []byte("{}"))
			case "skip":
				err = send(c, MsgTypeSkipRound, []byte("{}"))
			case "leave":
				err = send(c, MsgTypeLeaveRoom, []byte("{}"))
			case "quit":
				return
			default:
				pterm.Error.Printfln("Unknown command: %s", fields[0])
				continue
			}
			if err != nil {
				pterm.Error.Printfln("Write error: %v", err)
				return
			}
		}
	}
}
