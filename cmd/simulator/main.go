package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:9999"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "classic":
		classicCmd(apiURL, args)
	case "elimination":
		eliminationCmd(apiURL, args)
	case "populate":
		populateCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Room Simulator - Development tool for driving game rooms

USAGE:
  simulator <command> [options]

COMMANDS:
  classic      Create a room with guest players and play classic rounds to completion
  elimination  Create an elimination room and play one round end to end
  populate     Add guest players to an existing room
  help         Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:9999)

EXAMPLES:
  # Create a 4-player classic room and play one round
  simulator classic

  # Play three consecutive classic rounds with 6 players
  simulator classic --count=6 --rounds=3

  # Elimination round where the detective arrests the killer
  simulator elimination --outcome=arrest

  # Elimination round where the killer takes out the detective
  simulator elimination --outcome=kill

  # Add 3 guests to an existing room, leaving slots for real users
  simulator populate --room=AB3F7 --count=3`)
}

// simRoom tracks the room plus the access token for every guest we created,
// so the simulator can act as whichever member holds a role.
type simRoom struct {
	client *APIClient
	room   *Room
	host   string
	tokens map[string]string
}

func setupRoom(apiURL, gameMode string, count int) *simRoom {
	client := NewAPIClient(apiURL)

	fmt.Print("Creating host and room... ")
	host, hostToken, err := client.SignInGuest("Host")
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}

	room, err := client.CreateRoom(hostToken, gameMode)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (code: %s, mode: %s)\n", room.ShortCode, room.GameMode)

	tokens := map[string]string{host.ID: hostToken}

	fmt.Printf("Adding %d more players:\n", count-1)
	for i := 1; i < count; i++ {
		user, token, err := client.SignInGuest(fmt.Sprintf("Player%d", i))
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to create guest: %v\n", i+1, count, err)
			os.Exit(1)
		}
		if room, err = client.JoinRoom(token, room.ShortCode); err != nil {
			fmt.Printf("  [%d/%d] FAILED to join: %v\n", i+1, count, err)
			os.Exit(1)
		}
		tokens[user.ID] = token
		fmt.Printf("  [%d/%d] %s joined\n", i+1, count, user.DisplayName)
	}

	return &simRoom{client: client, room: room, host: hostToken, tokens: tokens}
}

// tokenFor returns the access token of the member currently holding role.
func (s *simRoom) tokenFor(role string) string {
	userID, ok := s.room.Roles[role]
	if !ok {
		fmt.Printf("Error: no %s in role assignment %v\n", role, s.room.Roles)
		os.Exit(1)
	}
	return s.tokens[userID]
}

func (s *simRoom) nameOf(userID string) string {
	for _, p := range s.room.Players {
		if p.UserID == userID {
			return p.DisplayName
		}
	}
	return userID
}

func (s *simRoom) printScores() {
	fmt.Println()
	fmt.Println("  Scores:")
	for _, p := range s.room.Players {
		fmt.Printf("    %-20s %5d  (%s)\n", p.DisplayName, p.Score, p.Role)
	}
	fmt.Println()
}

func classicCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("classic", flag.ExitOnError)
	count := fs.Int("count", 4, "Number of guest players to create (minimum 4)")
	rounds := fs.Int("rounds", 1, "Number of rounds to play")
	miss := fs.Bool("miss", false, "Have the sipahi accuse the wrong player")
	fs.Parse(args)

	if *count < 4 {
		fmt.Println("Error: --count must be at least 4")
		os.Exit(1)
	}

	fmt.Println("=== Room Simulator: Classic Rounds ===")
	fmt.Println()

	sim := setupRoom(apiURL, "classic", *count)

	fmt.Println()
	fmt.Print("Starting game... ")
	room, err := sim.client.StartGame(sim.host, sim.room.ShortCode)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	sim.room = room
	fmt.Println("OK")

	for round := 1; round <= *rounds; round++ {
		if round > 1 {
			fmt.Printf("Advancing to round %d... ", round)
			room, err = sim.client.NextRound(sim.host, sim.room.ShortCode)
			if err != nil {
				fmt.Printf("FAILED\n  Error: %v\n", err)
				os.Exit(1)
			}
			sim.room = room
			fmt.Println("OK")
		}

		fmt.Printf("Round %d: mantri (%s) claims... ", sim.room.Round, sim.nameOf(sim.room.Roles["mantri"]))
		room, err = sim.client.ClaimRole(sim.tokenFor("mantri"), sim.room.ShortCode)
		if err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		sim.room = room
		fmt.Println("OK")

		target := sim.room.Roles["chor"]
		if *miss {
			target = sim.room.Roles["raja"]
		}
		fmt.Printf("Round %d: sipahi (%s) accuses %s... ", sim.room.Round, sim.nameOf(sim.room.Roles["sipahi"]), sim.nameOf(target))
		room, err = sim.client.Accuse(sim.tokenFor("sipahi"), sim.room.ShortCode, target)
		if err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		sim.room = room

		result := "?"
		if sim.room.LastResult != nil {
			result = *sim.room.LastResult
		}
		fmt.Printf("OK (%s)\n", result)
	}

	sim.printScores()
	fmt.Printf("Room code: %s\n", sim.room.ShortCode)
}

func eliminationCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("elimination", flag.ExitOnError)
	count := fs.Int("count", 5, "Number of guest players to create (minimum 4)")
	outcome := fs.String("outcome", "arrest", "Round outcome to drive: arrest | kill | lastchance")
	fs.Parse(args)

	if *count < 4 {
		fmt.Println("Error: --count must be at least 4")
		os.Exit(1)
	}

	fmt.Println("=== Room Simulator: Elimination Round ===")
	fmt.Println()

	sim := setupRoom(apiURL, "elimination", *count)

	fmt.Println()
	fmt.Print("Starting game... ")
	room, err := sim.client.StartGame(sim.host, sim.room.ShortCode)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	sim.room = room
	fmt.Println("OK")

	killerID := sim.room.Roles["killer"]
	detectiveID := sim.room.Roles["detective"]

	var citizens []string
	for _, p := range sim.room.Players {
		if p.UserID != killerID && p.UserID != detectiveID {
			citizens = append(citizens, p.UserID)
		}
	}

	switch *outcome {
	case "arrest":
		fmt.Printf("Detective (%s) arrests the killer (%s)... ", sim.nameOf(detectiveID), sim.nameOf(killerID))
		room, err = sim.client.Arrest(sim.tokens[detectiveID], sim.room.ShortCode, killerID)

	case "kill":
		fmt.Printf("Killer (%s) eliminates the detective (%s)... ", sim.nameOf(killerID), sim.nameOf(detectiveID))
		room, err = sim.client.Kill(sim.tokens[killerID], sim.room.ShortCode, detectiveID)

	case "lastchance":
		// Kill citizens until two survivors remain; the round must
		// auto-resolve as a killer win on the final elimination.
		for i, citizen := range citizens {
			fmt.Printf("Killer eliminates %s... ", sim.nameOf(citizen))
			room, err = sim.client.Kill(sim.tokens[killerID], sim.room.ShortCode, citizen)
			if err != nil {
				break
			}
			sim.room = room
			fmt.Println("OK")
			if room.LastResult != nil {
				break
			}
			if i == len(citizens)-1 {
				fmt.Println("Error: round did not resolve after all citizens were eliminated")
				os.Exit(1)
			}
		}

	default:
		fmt.Printf("Error: unknown --outcome %q (want arrest, kill, or lastchance)\n", *outcome)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	sim.room = room

	result := "unresolved"
	if sim.room.LastResult != nil {
		result = *sim.room.LastResult
	}
	fmt.Printf("OK (%s)\n", result)

	sim.printScores()
	fmt.Printf("Room code: %s\n", sim.room.ShortCode)
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	roomCode := fs.String("room", "", "Room ID or short code (required)")
	count := fs.Int("count", 3, "Number of guests to add")
	fs.Parse(args)

	if *roomCode == "" {
		fmt.Println("Error: --room is required")
		fmt.Println("\nUsage: simulator populate --room=AB3F7 [--count=3]")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Printf("Adding %d guests to room %s...\n\n", *count, *roomCode)

	for i := 0; i < *count; i++ {
		user, token, err := client.SignInGuest(fmt.Sprintf("Player%d", i+1))
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to create guest: %v\n", i+1, *count, err)
			continue
		}

		if _, err := client.JoinRoom(token, *roomCode); err != nil {
			fmt.Printf("  [%d/%d] FAILED to join: %v\n", i+1, *count, err)
			continue
		}

		fmt.Printf("  [%d/%d] %s joined\n", i+1, *count, user.DisplayName)
	}

	fmt.Println()
	fmt.Println("Done! Join with the same code to play alongside them.")
}
