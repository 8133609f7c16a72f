package account

import (
	"github.com/julianstephens/daystreak/internal/cli"
)

type LoginCmd struct {
	User string `arg:"" help:"User id to sign in as."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := sess.SignIn(c.User); err != nil {
		return err
	}
	ctx.Printf("✓ Signed in as %s\n", sess.User())
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	user, err := sess.RequireUser()
	if err != nil {
		return err
	}
	ctx.Println(user)
	return nil
}
