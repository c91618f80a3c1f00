/*
Package explorer is an AI subject explorer: a navigation session that starts from a
free-text topic and drills down through menus proposed by a topic service.

# Concept

The explorer keeps a single navigation state. A session is opened with a topic and
the service answers with a session ID and a first menu. Each selection sends the
chosen item back and receives the next menu, so the session accumulates a history
of the path taken ("Topic: Go", "Selected: History of Go", ...).

Every request carries a generation number. Resetting the explorer or issuing a new
request bumps the generation, and any response that arrives for an older
generation is discarded instead of overwriting newer state.

# Packages

  - pkg/domain: State, Session, request phases and the error taxonomy.
  - pkg/navigator: the pure reducers and the asynchronous Controller.
  - pkg/runner: the text and JSON front ends driving a Controller.
  - pkg/adapters: the mock service, the HTTP server and client, the MCP server and the session stores.
  - pkg/topics and pkg/session: the server-side topic service and its session manager.

# Usage

	ctrl := explorer.NewMock()
	defer ctrl.Close()

	req, err := ctrl.StartSession(ctx, "Go")
	if err != nil {
		log.Fatal(err) // rejected locally, e.g. empty topic
	}
	if err := req.Wait(ctx); err != nil {
		log.Printf("service failed: %v", err)
	}

	state := ctrl.State()
	fmt.Println(state.Session.Menu)

The explorer binary wraps the same Controller in an interactive CLI (explore), an
HTTP topic service (serve) and an MCP server (mcp).
*/
package explorer
