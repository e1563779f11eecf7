package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/hr-admin/internal/auth"
	competenceDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/competence"
	journalDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/journal"
	userDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-admin/internal/user"
	"github.com/frahmantamala/hr-admin/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one user per role, the permission catalogue and sample competences.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			return fmt.Errorf("failed to init gorm: %w", err)
		}

		return seedDatabase(cmd.Context(), gormDB, seedOptions{
			Password:   seedPassword,
			BCryptCost: cfg.Security.BCryptCost,
			Clear:      clearData,
		})
	},
}

type seedOptions struct {
	Password   string
	BCryptCost int
	Clear      bool
}

type seedUser struct {
	Nom, Prenom, Username string
	Role                  user.Role
	Permissions           []string
}

var seedPermissions = []struct {
	Name string
	Desc string
}{
	{auth.PermVoir, "Can list users"},
	{auth.PermEditer, "Can edit users"},
	{auth.PermSupprimer, "Can delete users"},
}

var seedUsers = []seedUser{
	{"Martin", "Claire", "cmartin", user.RoleAdmin, []string{auth.PermVoir, auth.PermEditer, auth.PermSupprimer}},
	{"Lefebvre", "Marc", "mlefebvre", user.RoleDirecteur, []string{auth.PermVoir, auth.PermEditer}},
	{"Durand", "Paul", "pdurand", user.RoleRH, []string{auth.PermVoir, auth.PermEditer}},
	{"Bernard", "Lucie", "lbernard", user.RoleResponsable, []string{auth.PermVoir}},
}

var seedCompetences = []struct {
	Nom  string
	Desc string
}{
	{"Gestion de projet", "Planification et suivi des projets"},
	{"Recrutement", "Conduite des entretiens et sourcing"},
	{"Paie", "Traitement de la paie et déclarations sociales"},
	{"Communication", "Communication interne et externe"},
}

// seedDatabase is idempotent; existing rows are kept and missing grants added.
func seedDatabase(ctx context.Context, db *gorm.DB, opts seedOptions) error {
	lg := logger.From(ctx)
	if opts.Password == "" {
		return errors.New("seed password cannot be empty")
	}
	if opts.BCryptCost == 0 {
		opts.BCryptCost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clear {
			for _, model := range []interface{}{
				&userDatamodel.UserPermission{},
				&journalDatamodel.JournalAction{},
				&userDatamodel.User{},
				&userDatamodel.Permission{},
				&competenceDatamodel.Competence{},
			} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("clear %T: %w", model, err)
				}
			}
			lg.Info("cleared existing data")
		}

		permissionIDs := make(map[string]int64, len(seedPermissions))
		for _, p := range seedPermissions {
			perm := userDatamodel.Permission{Name: p.Name, Description: p.Desc}
			if err := tx.Where(userDatamodel.Permission{Name: p.Name}).FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", p.Name, err)
			}
			permissionIDs[p.Name] = perm.ID
		}

		for _, u := range seedUsers {
			row := userDatamodel.User{
				Nom:          u.Nom,
				Prenom:       u.Prenom,
				Email:        u.Username + "@hr-admin.local",
				Username:     u.Username,
				PasswordHash: string(hash),
				Role:         string(u.Role),
			}
			if err := tx.Where(userDatamodel.User{Username: u.Username}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, err)
			}

			for _, name := range u.Permissions {
				grant := userDatamodel.UserPermission{UserID: row.ID, PermissionID: permissionIDs[name]}
				if err := tx.Where(grant).FirstOrCreate(&grant).Error; err != nil {
					return fmt.Errorf("grant %s to %s: %w", name, u.Username, err)
				}
			}
			lg.Info("seeded user", "username", u.Username, "role", string(u.Role), "permissions", u.Permissions)
		}

		for _, c := range seedCompetences {
			row := competenceDatamodel.Competence{Nom: c.Nom, Description: c.Desc}
			if err := tx.Where(competenceDatamodel.Competence{Nom: c.Nom}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed competence %s: %w", c.Nom, err)
			}
		}
		lg.Info("seeded competences", "count", len(seedCompetences))

		return nil
	})
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "password", "Password given to every seeded user")
}
