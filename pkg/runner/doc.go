/*
Package runner implements the interactive loop that drives a navigator.Controller from
a terminal or a pipe.

The runner reads one command per line. Without an active session the line is a topic;
with one it is a menu number or label. "reset" drops the session and "exit" or "quit"
ends the loop. Pressing Ctrl+C while a request is loading abandons it (the session is
reset); pressing it at the prompt ends the loop.

# Key Components

  - Runner: the loop itself.
  - IOHandler: decouples how state is presented and how commands are read.
  - TextHandler: human-readable output, optionally rendered as Markdown.
  - JSONHandler: NDJSON output carrying domain.StateDiff updates, for scripting.
  - View: a presentation model of domain.State shared by handlers and adapters.

# Usage

	ctrl := navigator.New(service)
	defer ctrl.Close()

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdout, runner.WithStdin())),
	)
	if err := r.Run(ctx, ctrl, "Physics"); err != nil {
		log.Fatal(err)
	}
*/
package runner
