package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if user := a.store.CurrentUser(); user != nil {
		name := user.Username
		if name == "" {
			name = user.Email
		}
		return fmt.Sprintf("(%s)", name)
	}
	return "(anonymous)"
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Available commands:")
	fmt.Fprintln(a.out, "  upload <path> [hours] [maxDownloads]  send a file")
	fmt.Fprintln(a.out, "  download <code> [dir]                 retrieve a file by access code")
	fmt.Fprintln(a.out, "  meta <code>                           show file details")
	if a.store.IsAuthenticated() {
		fmt.Fprintln(a.out, "  list [page]                           list vault files")
		fmt.Fprintln(a.out, "  settings <code> [hours=H] [max=N]     change expiry / download cap")
		fmt.Fprintln(a.out, "  publish <code>                        move a vault file to the public pool")
		fmt.Fprintln(a.out, "  delete <code>                         delete a vault file")
		fmt.Fprintln(a.out, "  refresh                               refresh the access token")
		fmt.Fprintln(a.out, "  whoami                                show the current user")
		fmt.Fprintln(a.out, "  logout")
	} else {
		fmt.Fprintln(a.out, "  signup | login | otp | passkey        authenticate")
	}
	fmt.Fprintln(a.out, "  exit")
}

// Root runs the command loop until exit or EOF.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to SecureDrop CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "sdrop %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()
		case "signup":
			a.Signup(ctx)
		case "login":
			a.Login(ctx)
		case "otp":
			a.OtpLogin(ctx)
		case "passkey":
			a.RegisterPasskey(ctx, args)
		case "logout":
			a.Logout(ctx)
		case "refresh":
			a.RefreshSession(ctx)
		case "whoami":
			a.WhoAmI()
		case "upload":
			a.Upload(ctx, args)
		case "download":
			a.Download(ctx, args)
		case "meta":
			a.Meta(ctx, args)
		case "list":
			a.List(ctx, args)
		case "settings":
			a.Settings(ctx, args)
		case "publish":
			a.Publish(ctx, args)
		case "delete":
			a.Delete(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
