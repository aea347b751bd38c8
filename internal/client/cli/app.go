package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/dmitrijs2005/securedrop/internal/client/config"
	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/client/services"
	"github.com/dmitrijs2005/securedrop/internal/client/session"
	"github.com/dmitrijs2005/securedrop/internal/client/transfer"
	"github.com/dmitrijs2005/securedrop/internal/client/transport"
	"github.com/dmitrijs2005/securedrop/internal/logging"
)

// authAPI is the slice of the auth service the shell needs; tests
// substitute a fake.
type authAPI interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.AuthRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	InitPasswordless(ctx context.Context, req models.OtpRequest) error
	PasskeyRegistrationOptions(ctx context.Context, email string) (string, error)
	VerifyPasskeyRegistration(ctx context.Context, passkeyJSON string) error
}

// App is the interactive shell. One upload slot and one download slot
// serialize transfers; everything auth-related goes through the session
// store.
type App struct {
	config *config.Config
	log    logging.Logger

	store  *session.Store
	auth   authAPI
	public services.FileService
	vault  services.VaultService

	uploadSlot   *transfer.Slot
	downloadSlot *transfer.Slot

	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires the full client: session database, transport, services and
// the session store with its best-effort remote logout.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := session.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}

	tc := transport.New(cfg.ServerEndpointURL)
	auth := services.NewAuthService(tc, log)

	store := session.NewStore(db, tc, log)
	store.SetRemoteLogout(auth)

	return &App{
		config:       cfg,
		log:          log,
		store:        store,
		auth:         auth,
		public:       services.NewPublicFileService(tc, log),
		vault:        services.NewVaultFileService(tc, log),
		uploadSlot:   transfer.NewSlot(transfer.KindUpload),
		downloadSlot: transfer.NewSlot(transfer.KindDownload),
		db:           db,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

// Run restores a persisted session and enters the command loop. Restore
// completes before the first prompt, so a returning user is never briefly
// treated as anonymous.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.store.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	a.Root(ctx)
	return nil
}

// Close releases the session database.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// opCtx derives the per-call deadline for one network operation.
func (a *App) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// fileService picks the transfer variant for a fresh operation based on the
// session state at that moment.
func (a *App) fileService(mode models.StorageMode) services.FileService {
	if mode == models.ModePrivateVault {
		return a.vault
	}
	return a.public
}
