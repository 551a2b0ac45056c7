package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"devicelink/internal/devicejoin"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/rendezvous"
	"devicelink/internal/store"
)

// ctxFrameSource adapts an interfaces.FrameConn to devicejoin's
// context-free FrameSource, binding a single background context for the
// lifetime of the join.
type ctxFrameSource struct {
	ctx  context.Context
	conn interfaces.FrameConn
}

func (f ctxFrameSource) ReadFrame() ([]byte, error) { return f.conn.ReadMessage(f.ctx) }
func (f ctxFrameSource) WriteFrame(b []byte) error  { return f.conn.WriteMessage(f.ctx, b) }

func linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Print a QR join payload and complete device-join once it is scanned",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rendezvousHost == "" {
				return fmt.Errorf("--rendezvous-host is required")
			}

			sess, err := rendezvous.NewSession()
			if err != nil {
				return err
			}
			pathHex, err := rendezvous.PathIDHex()
			if err != nil {
				return err
			}

			ctx := context.Background()
			conn, err := (rendezvous.WSDialer{}).Dial(ctx, rendezvous.URL(rendezvousHost, pathHex))
			if err != nil {
				return fmt.Errorf("dial rendezvous: %w", err)
			}
			defer conn.Close()

			uri := rendezvous.JoinURI(sess.AK(), pathHex, rendezvousHost)
			fmt.Println("Scan this with your existing device:")
			fmt.Println(uri)

			helloFrame, err := conn.ReadMessage(ctx)
			if err != nil {
				return fmt.Errorf("read hello: %w", err)
			}
			authHello, err := sess.HandleHello(helloFrame)
			if err != nil {
				return fmt.Errorf("handle hello: %w", err)
			}
			if err := conn.WriteMessage(ctx, authHello); err != nil {
				return fmt.Errorf("send auth-hello: %w", err)
			}

			authFrame, err := conn.ReadMessage(ctx)
			if err != nil {
				return fmt.Errorf("read auth: %w", err)
			}
			if err := sess.HandleAuth(authFrame); err != nil {
				return fmt.Errorf("handle auth: %w", err)
			}

			nominateFrame, err := conn.ReadMessage(ctx)
			if err != nil {
				return fmt.Errorf("read nominate: %w", err)
			}
			if err := sess.HandleNominate(nominateFrame); err != nil {
				return fmt.Errorf("handle nominate: %w", err)
			}

			symbol := sess.VerificationSymbol()
			fmt.Printf("Verification symbol: %x\n", symbol)

			identityStore := store.NewIdentityFileStore(home)
			contactStore := store.NewContactFileStore(home)
			groupStore := store.NewGroupFileStore(home)
			mediaStore := store.NewMediaFileStore(home)
			if err := devicejoin.Run(sess, ctxFrameSource{ctx: ctx, conn: conn}, identityStore, contactStore, groupStore, mediaStore); err != nil {
				return fmt.Errorf("device-join: %w", err)
			}

			fmt.Println("Linked.")
			return nil
		},
	}
}
