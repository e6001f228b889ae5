package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	auditdomain "github.com/khasm-app/khasm/internal/audit/domain"
	authdomain "github.com/khasm-app/khasm/internal/auth/domain"
	categorydomain "github.com/khasm-app/khasm/internal/category/domain"
	"github.com/khasm-app/khasm/internal/config"
	favoritedomain "github.com/khasm-app/khasm/internal/favorite/domain"
	ledgerdomain "github.com/khasm-app/khasm/internal/ledger/domain"
	placedomain "github.com/khasm-app/khasm/internal/place/domain"
	storedomain "github.com/khasm-app/khasm/internal/store/domain"
	subscriptiondomain "github.com/khasm-app/khasm/internal/subscription/domain"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// MySQL and SQLite deployments rely on the schema derived from
		// the models, partial unique indexes included.
		return conn.AutoMigrate(
			&userdomain.User{},
			&authdomain.Session{},
			&placedomain.Place{},
			&categorydomain.Category{},
			&storedomain.Store{},
			&subscriptiondomain.Subscription{},
			&favoritedomain.Favorite{},
			&ledgerdomain.UsageRecord{},
			&auditdomain.AuditLog{},
		)
	}),
)
