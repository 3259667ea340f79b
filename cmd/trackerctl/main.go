package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	tracker "github.com/dangerclosesec/tracker"
	"github.com/dangerclosesec/tracker/internal/auth"
	"github.com/dangerclosesec/tracker/internal/config"
	"github.com/dangerclosesec/tracker/internal/migration"
	"github.com/dangerclosesec/tracker/internal/repository"
	"github.com/dangerclosesec/tracker/internal/service"
	"github.com/dangerclosesec/tracker/internal/store"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	dbConnString string
	verbose      bool

	orgName    string
	orgSlug    string
	orgContact string

	tokenTTL time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbConnString, "db", "d", "", "Postgres connection string (overrides DB_* settings)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	orgCreateCmd.Flags().StringVar(&orgName, "name", "", "Organization display name")
	orgCreateCmd.Flags().StringVar(&orgSlug, "slug", "", "Unique URL slug")
	orgCreateCmd.Flags().StringVar(&orgContact, "contact", "", "Contact email address")
	orgCreateCmd.MarkFlagRequired("name")
	orgCreateCmd.MarkFlagRequired("slug")
	orgCreateCmd.MarkFlagRequired("contact")

	orgCmd.AddCommand(orgCreateCmd)
	orgCmd.AddCommand(orgListCmd)
	orgCmd.AddCommand(orgDeleteCmd)

	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRY)")
	tokenCmd.AddCommand(tokenIssueCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(orgCmd)
	rootCmd.AddCommand(tokenCmd)
}

var rootCmd = &cobra.Command{
	Use:   "trackerctl",
	Short: "trackerctl administers the project tracker",
	Long:  `trackerctl applies schema migrations, provisions organizations and issues caller tokens.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cmd.Context()

		if cfg.Database.Driver == config.DriverSQLite {
			db := openStore(cfg)
			if err := store.AutoMigrate(db); err != nil {
				log.Fatalf("Failed to migrate sqlite database: %v", err)
			}
			fmt.Println("SQLite schema is up to date")
			return
		}

		migrator, db := openMigrator(cfg)
		defer db.Close()

		applied, err := migrator.Apply(ctx)
		if err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}

		if len(applied) == 0 {
			fmt.Println("No pending migrations")
			return
		}

		fmt.Printf("Applied %d migration(s)\n", len(applied))
		if verbose {
			for _, m := range applied {
				fmt.Printf("  - %04d_%s\n", m.Version, m.Name)
			}
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.Database.Driver == config.DriverSQLite {
			fmt.Println("SQLite databases are migrated automatically and carry no schema version")
			return
		}

		migrator, db := openMigrator(cfg)
		defer db.Close()

		ctx := cmd.Context()
		if err := migrator.InitializeSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}

		version, err := migrator.CurrentVersion(ctx)
		if err != nil {
			log.Fatalf("Failed to get current version: %v", err)
		}

		fmt.Printf("Current version: %d\n", version)
		if pending := migrator.Pending(version); len(pending) > 0 {
			fmt.Printf("Pending migrations: %d\n", len(pending))
		}
	},
}

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Manage organizations",
}

var orgCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an organization",
	Run: func(cmd *cobra.Command, args []string) {
		svc := newTrackerService(openStore(loadConfig()))

		org, err := svc.CreateOrganization(operatorContext(cmd.Context()), service.CreateOrganizationInput{
			Name:         orgName,
			Slug:         orgSlug,
			ContactEmail: orgContact,
		})
		if err != nil {
			log.Fatalf("Failed to create organization: %v", err)
		}

		fmt.Printf("Created organization %s (id %d)\n", org.Slug, org.ID)
	},
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
	Run: func(cmd *cobra.Command, args []string) {
		svc := newTrackerService(openStore(loadConfig()))

		orgs, err := svc.ListOrganizations(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to list organizations: %v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tNAME\tCONTACT")
		for _, org := range orgs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", org.ID, org.Slug, org.Name, org.ContactEmail)
		}
		w.Flush()
	},
}

var orgDeleteCmd = &cobra.Command{
	Use:   "delete [slug]",
	Short: "Delete an organization with all of its projects, tasks and comments",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := newTrackerService(openStore(loadConfig()))

		if err := svc.DeleteOrganization(operatorContext(cmd.Context()), args[0]); err != nil {
			log.Fatalf("Failed to delete organization: %v", err)
		}

		fmt.Printf("Deleted organization %s\n", args[0])
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage caller tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue [email]",
	Short: "Issue a bearer token identifying the given email",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		ttl := cfg.JWT.ExpiryPeriod
		if tokenTTL > 0 {
			ttl = tokenTTL
		}

		token, err := auth.NewTokenManager(cfg.JWT.Secret, ttl).Generate(args[0])
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}

		fmt.Println(token)
	},
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbConnString != "" {
		cfg.Database.Driver = config.DriverPostgres
	}
	return cfg
}

func openStore(cfg *config.Config) *gorm.DB {
	if dbConnString != "" {
		log.Fatal("--db is only supported by migrate and version")
	}

	db, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func openMigrator(cfg *config.Config) (*migration.Migrator, *sql.DB) {
	dsn := dbConnString
	if dsn == "" {
		dsn = cfg.PostgresURL()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrator, err := migration.NewMigrator(db, tracker.MigrationsFS, "migrations")
	if err != nil {
		db.Close()
		log.Fatalf("Failed to load migrations: %v", err)
	}
	return migrator, db
}

func newTrackerService(db *gorm.DB) *service.TrackerService {
	return service.NewTrackerService(
		repository.NewOrganizationRepository(db),
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
		repository.NewCommentRepository(db),
		service.NewActivityService(repository.NewActivityLogRepository(db)),
		nil,
		nil,
	)
}

// operatorContext attributes CLI mutations in the activity log.
func operatorContext(ctx context.Context) context.Context {
	if user := os.Getenv("USER"); user != "" {
		return auth.WithCaller(ctx, "cli:"+user)
	}
	return ctx
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
