// ABOUTME: CLI commands for syncing filter state through Charm KV
// ABOUTME: Status, manual sync, auto-sync toggle and wipe

package charm

import (
	"errors"
	"flag"
	"fmt"
)

// SyncStatusCommand shows sync configuration and what is stored.
func SyncStatusCommand(host string, args []string) error {
	fs := flag.NewFlagSet("sync status", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg, err := LoadConfig(host)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Charm Sync Status")
	fmt.Println("─────────────────")
	fmt.Printf("Server:    %s\n", cfg.Host)
	fmt.Printf("Auto-sync: %v\n", cfg.AutoSync)

	c, err := Open(cfg)
	if err != nil {
		fmt.Println("\nStatus: Not connected")
		return nil //nolint:nilerr // not connected is a valid status
	}

	if id, err := c.ID(); err != nil {
		fmt.Println("\nStatus: Connected (ID unavailable)")
	} else {
		fmt.Println("\nStatus: Connected")
		fmt.Printf("ID:        %s\n", id)
	}

	st, err := NewFilterRepository(c).Load()
	switch {
	case err != nil:
		fmt.Printf("Filters:   unreadable (%v)\n", err)
	case st == nil:
		fmt.Println("Filters:   none stored")
	default:
		fmt.Printf("Filters:   stored, %d saved view(s)\n", len(st.SavedViews))
	}
	return nil
}

// SyncNowCommand performs an immediate sync.
func SyncNowCommand(host string, args []string) error {
	fs := flag.NewFlagSet("sync now", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg, err := LoadConfig(host)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c, err := Open(cfg)
	if err != nil {
		return err
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Println("✓ Synced")
	return nil
}

// SyncAutoCommand enables or disables auto-sync.
func SyncAutoCommand(host string, args []string) error {
	fs := flag.NewFlagSet("sync auto", flag.ExitOnError)
	enable := fs.Bool("enable", false, "Enable auto-sync")
	disable := fs.Bool("disable", false, "Disable auto-sync")
	_ = fs.Parse(args)

	if *enable == *disable {
		return errors.New("usage: pocportal sync auto --enable|--disable")
	}

	cfg, err := LoadConfig(host)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.SetAutoSync(*enable); err != nil {
		return fmt.Errorf("failed to save auto-sync setting: %w", err)
	}
	fmt.Printf("✓ Auto-sync: %v\n", *enable)
	return nil
}

// SyncWipeCommand deletes the synced filter state.
func SyncWipeCommand(host string, args []string) error {
	fs := flag.NewFlagSet("sync wipe", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "Confirm wipe")
	_ = fs.Parse(args)

	if !*confirm {
		fmt.Println("WARNING: This deletes the synced filter state and saved views.")
		fmt.Println("To confirm, run:")
		fmt.Println("  pocportal sync wipe --confirm")
		return nil
	}

	cfg, err := LoadConfig(host)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c, err := Open(cfg)
	if err != nil {
		return err
	}
	if err := c.Reset(); err != nil {
		return fmt.Errorf("failed to reset KV store: %w", err)
	}
	fmt.Println("✓ Synced filter state wiped")
	return nil
}
