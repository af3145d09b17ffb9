// Package browser creates and tears down Playwright browser sessions bound to
// on-disk profiles, so an authenticated login survives between runs.
//
// # Architecture
//
//  1. Kind: the closed set of supported browsers (chrome, firefox, edge). Each
//     kind knows which Playwright engine and channel to launch.
//  2. Manager: owns the Playwright runtime and tracks every open session.
//  3. Factory: bound to one Kind at construction; Create launches a persistent
//     context for a profile suffix and returns it as a Session.
//
// # Profiles
//
// Profiles live under a root directory and are named
// <kind>_whatsapp_profile_<suffix>. Single-session runs use the "single" suffix;
// multi-session runs use "worker_<n>" clones of it produced by
// PrepareWorkerProfiles.
//
// # Example Usage
//
//	manager := browser.NewManager(browser.ManagerOptions{})
//	if err := manager.Initialize(browser.KindChrome); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	factory, err := browser.NewFactory(manager, browser.FactoryOptions{
//	    Kind:         browser.KindChrome,
//	    ProfilesRoot: "browser_profiles",
//	})
//	session, err := factory.Create(ctx, browser.SingleSuffix)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
package browser
