package account

import (
	"github.com/julianstephens/daystreak/internal/cli"
)

type LogoutCmd struct {
	Force bool `help:"Sign out even if offline changes are still queued; they are discarded."`
}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if sess.User() == "" {
		ctx.Println("Not signed in.")
		return nil
	}
	user := sess.User()
	if err := sess.SignOut(c.Force); err != nil {
		return err
	}
	ctx.Printf("✓ Signed out %s\n", user)
	return nil
}
