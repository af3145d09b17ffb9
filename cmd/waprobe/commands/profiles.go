package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/ui"
)

func profilesCmd(opts *globalOptions) *cobra.Command {
	var pattern, dir string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List browser profile directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := dir
			if root == "" {
				root = browser.DefaultProfilesRoot
				if cfg, err := config.Load(opts.configPath); err == nil && cfg.ProfilesDir != "" {
					root = cfg.ProfilesDir
				}
			}

			profiles, err := browser.ListProfiles(root, pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(profiles) == 0 {
				fmt.Fprintln(out, ui.HintStyle.Render(fmt.Sprintf("No profiles found in %s", root)))
				return nil
			}

			fmt.Fprintln(out, ui.TitleStyle.Render(fmt.Sprintf("Profiles in %s", root)))
			for _, p := range profiles {
				fmt.Fprintf(out, "  %s  %s\n", ui.ValueStyle.Render(p.Name), ui.HintStyle.Render(p.ModTime))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "glob matched against profile names (default *_whatsapp_profile_*)")
	cmd.Flags().StringVar(&dir, "dir", "", "profiles directory (default from config, else browser_profiles)")
	return cmd
}
