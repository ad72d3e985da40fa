package main

import (
	"github.com/spf13/cobra"

	"github.com/tordrt/resourcekit/internal/generator"
	"github.com/tordrt/resourcekit/internal/stub"
)

func newGenerateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"g"},
		Short:   "Generate code from a resource file",
		Long: `Generate code from a resource file.

Available generators:
  migration - CREATE TABLE migration for mysql, postgres, sqlite or sqlserver
  language  - one JSON language file per locale
  form      - HTML form fragment
  all       - every generator above

Examples:
  resourcekit generate migration Post --dialect postgres
  resourcekit generate language Post
  resourcekit g form Post --force`,
	}

	cmd.AddCommand(newGenerateMigrationCommand(a))
	cmd.AddCommand(newGenerateLanguageCommand(a))
	cmd.AddCommand(newGenerateFormCommand(a))
	cmd.AddCommand(newGenerateAllCommand(a))

	return cmd
}

// generatorOptions builds the options shared by every generator
func (a *app) generatorOptions(force bool) generator.Options {
	return generator.Options{
		Loader: stub.NewLoader(a.cfg.Paths.Stubs, a.logger),
		Force:  force,
		Logger: a.logger,
	}
}

// subject loads the model's resource file
func (a *app) subject(model string) (generator.Subject, error) {
	res, err := a.load(model)
	if err != nil {
		return generator.Subject{}, err
	}
	return generator.NewSubject(model, res), nil
}

// reportResult prints a generated path and any unresolved stub tokens
func (a *app) reportResult(result *generator.Result) {
	a.console.Success("Created %s", result.Path)
	for _, token := range result.Unresolved {
		a.console.Warning("%s: token [%% %s %%] has no value", result.Path, token)
	}
}

func (a *app) generateMigration(subject generator.Subject, dialect string, force bool) error {
	if dialect == "" {
		dialect = a.cfg.Migration.Dialect
	}
	g, err := generator.NewMigrationGenerator(dialect, a.generatorOptions(force))
	if err != nil {
		return err
	}
	result, err := g.Generate(subject, a.cfg.Paths.Migrations)
	if err != nil {
		return err
	}
	a.reportResult(result)
	return nil
}

func (a *app) generateLanguage(subject generator.Subject, locales []string, force bool) error {
	if len(locales) == 0 {
		locales = a.cfg.Locales
	}
	results, err := generator.NewLanguageGenerator(a.generatorOptions(force)).Generate(subject, a.cfg.Paths.Languages, locales)
	for _, result := range results {
		a.reportResult(result)
	}
	return err
}

func (a *app) generateForm(subject generator.Subject, locale string, force bool) error {
	if locale == "" {
		locale = a.cfg.Locales[0]
	}
	result, err := generator.NewFormGenerator(locale, a.generatorOptions(force)).Generate(subject, a.cfg.Paths.Views)
	if err != nil {
		return err
	}
	a.reportResult(result)
	return nil
}

func newGenerateMigrationCommand(a *app) *cobra.Command {
	var (
		dialect string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "migration <model>",
		Short: "Generate a CREATE TABLE migration",
		Long: `Generate a CREATE TABLE migration in paths.migrations.

Migration files are named with a timestamp prefix:
  {YYYY_MM_DD_HHMMSS}_create_{table}_table.sql

An existing migration for the same table is only replaced with --force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := a.subject(args[0])
			if err != nil {
				return err
			}
			return a.generateMigration(subject, dialect, force)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect: mysql, postgres, sqlite or sqlserver (default: migration.dialect)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing migration")
	return cmd
}

func newGenerateLanguageCommand(a *app) *cobra.Command {
	var (
		locales []string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "language <model>",
		Short: "Generate per-locale language files",
		Long: `Generate one JSON language file per locale in paths.languages.

Keys already present in an existing file keep their value unless --force
is given; missing keys are always added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := a.subject(args[0])
			if err != nil {
				return err
			}
			return a.generateLanguage(subject, locales, force)
		},
	}

	cmd.Flags().StringSliceVar(&locales, "locales", nil, "Locales to generate (default: configured locales)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing translations")
	return cmd
}

func newGenerateFormCommand(a *app) *cobra.Command {
	var (
		locale string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "form <model>",
		Short: "Generate an HTML form fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := a.subject(args[0])
			if err != nil {
				return err
			}
			return a.generateForm(subject, locale, force)
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Locale of the labels (default: first configured locale)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing form")
	return cmd
}

func newGenerateAllCommand(a *app) *cobra.Command {
	var (
		dialect string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "all <model>",
		Short: "Run every generator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := a.subject(args[0])
			if err != nil {
				return err
			}
			if err := a.generateMigration(subject, dialect, force); err != nil {
				return err
			}
			if err := a.generateLanguage(subject, nil, force); err != nil {
				return err
			}
			return a.generateForm(subject, "", force)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect (default: migration.dialect)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	return cmd
}

func newStubsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stubs",
		Short: "List the stubs used by the generators",
		Long: `List the stubs used by the generators.

Copy a stub into paths.stubs under the same name to override it, e.g.
paths.stubs/form/input.stub.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := stub.NewLoader(a.cfg.Paths.Stubs, a.logger)
			names, err := loader.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				content, err := loader.Load(name)
				if err != nil {
					return err
				}
				a.console.Info("%s: %v", name, stub.TokenNames(content))
			}
			return nil
		},
	}
}
