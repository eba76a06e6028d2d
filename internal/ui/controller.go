package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sshconnector/ssh-connector/internal/config"
	"github.com/sshconnector/ssh-connector/internal/groups"
)

// Connector launches one interactive session and blocks until it ends.
type Connector interface {
	Connect(username, host string) error
}

// Controller walks the menu graph. Everything it touches is held
// explicitly: the screen it renders to, the registry it mutates, the store
// behind import/export, and the connector sessions are delegated to.
type Controller struct {
	screen  *Screen
	reg     *groups.Registry
	store   *config.Store
	connect Connector
}

// NewController assembles a controller from its collaborators.
func NewController(screen *Screen, reg *groups.Registry, store *config.Store, connect Connector) *Controller {
	return &Controller{screen: screen, reg: reg, store: store, connect: connect}
}

// Menu commands. Every screen dispatches on its own typed command instead
// of raw option indices, so inserting an option can never silently change
// what a branch means.
type mainCommand int

const (
	mainServerGroups mainCommand = iota
	mainChangeUsername
	mainImport
	mainExport
	mainHelp
	mainExit
)

type groupsAction int

const (
	groupsOpen groupsAction = iota
	groupsAdd
	groupsBack
)

type groupsCommand struct {
	action groupsAction
	group  string
}

type detailAction int

const (
	detailConnect detailAction = iota
	detailManage
	detailBack
)

type detailCommand struct {
	action detailAction
	host   string
}

type manageCommand int

const (
	manageAddServer manageCommand = iota
	manageRemoveServer
	manageRename
	manageDelete
	manageBack
)

type removeCommand struct {
	host   string
	cancel bool
}

// Run drives the menu graph until the user exits or input ends. The only
// errors that escape are the screen's reader errors; every domain failure
// is reported inline and the current menu is redrawn.
func (c *Controller) Run() error {
	for {
		cmd, err := Choose(c.screen, "SSH CONNECTOR", []Option[mainCommand]{
			{"Server Groups", mainServerGroups},
			{"Change Username", mainChangeUsername},
			{"Import Configuration", mainImport},
			{"Export Configuration", mainExport},
			{"Help", mainHelp},
			{"Exit", mainExit},
		})
		if err != nil {
			return err
		}
		switch cmd {
		case mainServerGroups:
			err = c.serverGroupsMenu()
		case mainChangeUsername:
			err = c.changeUsername()
		case mainImport:
			err = c.importConfig()
		case mainExport:
			err = c.exportConfig()
		case mainHelp:
			err = c.help()
		case mainExit:
			c.screen.Printf("\nGoodbye!\n")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Controller) serverGroupsMenu() error {
	for {
		var opts []Option[groupsCommand]
		for _, name := range c.reg.GroupNames() {
			opts = append(opts, Option[groupsCommand]{name, groupsCommand{action: groupsOpen, group: name}})
		}
		opts = append(opts,
			Option[groupsCommand]{"Add New Group", groupsCommand{action: groupsAdd}},
			Option[groupsCommand]{"Back to Main Menu", groupsCommand{action: groupsBack}},
		)
		cmd, err := Choose(c.screen, "SERVER GROUPS", opts)
		if err != nil {
			return err
		}
		switch cmd.action {
		case groupsOpen:
			if err := c.groupMenu(cmd.group); err != nil {
				return err
			}
		case groupsAdd:
			if err := c.addGroup(); err != nil {
				return err
			}
		case groupsBack:
			return nil
		}
	}
}

// groupMenu lists one group's servers. When the manage screen renames or
// deletes the group it signals that through its return value and this menu
// unwinds too; the stale name must never be shown again.
func (c *Controller) groupMenu(group string) error {
	for {
		hosts, _ := c.reg.Hosts(group)
		var opts []Option[detailCommand]
		for _, h := range hosts {
			opts = append(opts, Option[detailCommand]{h, detailCommand{action: detailConnect, host: h}})
		}
		opts = append(opts,
			Option[detailCommand]{"Manage Group", detailCommand{action: detailManage}},
			Option[detailCommand]{"Back to Server Groups", detailCommand{action: detailBack}},
		)
		cmd, err := Choose(c.screen, strings.ToUpper(group)+" SERVERS", opts)
		if err != nil {
			return err
		}
		switch cmd.action {
		case detailConnect:
			if err := c.connectTo(cmd.host); err != nil {
				return err
			}
		case detailManage:
			gone, err := c.manageMenu(group)
			if err != nil {
				return err
			}
			if gone {
				return nil
			}
		case detailBack:
			return nil
		}
	}
}

// manageMenu returns gone=true when the group no longer exists under its
// current name (renamed or deleted).
func (c *Controller) manageMenu(group string) (gone bool, err error) {
	for {
		cmd, err := Choose(c.screen, "MANAGE "+strings.ToUpper(group), []Option[manageCommand]{
			{fmt.Sprintf("Add server to %s", group), manageAddServer},
			{fmt.Sprintf("Remove server from %s", group), manageRemoveServer},
			{fmt.Sprintf("Rename %s", group), manageRename},
			{fmt.Sprintf("Delete %s", group), manageDelete},
			{"Back to Server Groups", manageBack},
		})
		if err != nil {
			return false, err
		}
		switch cmd {
		case manageAddServer:
			if err := c.addServer(group); err != nil {
				return false, err
			}
		case manageRemoveServer:
			if err := c.removeServer(group); err != nil {
				return false, err
			}
		case manageRename:
			renamed, err := c.renameGroup(group)
			if err != nil {
				return false, err
			}
			return renamed, nil
		case manageDelete:
			deleted, err := c.deleteGroup(group)
			if err != nil {
				return false, err
			}
			if deleted {
				return true, nil
			}
		case manageBack:
			return false, nil
		}
	}
}

func (c *Controller) connectTo(host string) error {
	c.screen.Printf("\nConnecting to %s as %s...\n", host, c.reg.Username())
	if err := c.connect.Connect(c.reg.Username(), host); err != nil {
		c.screen.Printf("Error connecting to server: %v\n", err)
	}
	return c.screen.Pause("\nSSH session ended. Press Enter to return to the menu.")
}

func (c *Controller) addGroup() error {
	name, err := c.screen.ReadLine("\nEnter name for the new server group: ")
	if err != nil {
		return err
	}
	switch addErr := c.reg.AddGroup(name); {
	case errors.Is(addErr, groups.ErrEmptyName):
		c.screen.Printf("Group name cannot be empty\n")
	case errors.Is(addErr, groups.ErrDuplicateGroup):
		c.screen.Printf("Group '%s' already exists\n", name)
	case addErr != nil:
		c.screen.Printf("Error saving configuration: %v\n", addErr)
	default:
		c.screen.Printf("Group '%s' added successfully\n", name)
	}
	return c.screen.Pause("\nPress Enter to continue...")
}

func (c *Controller) addServer(group string) error {
	host, err := c.screen.ReadLine("\nEnter server hostname or IP: ")
	if err != nil {
		return err
	}
	switch addErr := c.reg.AddHost(group, host); {
	case errors.Is(addErr, groups.ErrEmptyHost):
		c.screen.Printf("Server cannot be empty\n")
	case errors.Is(addErr, groups.ErrDuplicateHost):
		c.screen.Printf("Server '%s' already exists in this group\n", host)
	case addErr != nil:
		c.screen.Printf("Error saving configuration: %v\n", addErr)
	default:
		c.screen.Printf("Server '%s' added to %s\n", host, group)
	}
	return c.screen.Pause("\nPress Enter to continue...")
}

func (c *Controller) removeServer(group string) error {
	hosts, _ := c.reg.Hosts(group)
	if len(hosts) == 0 {
		c.screen.Printf("No servers in %s\n", group)
		return c.screen.Pause("\nPress Enter to continue...")
	}
	var opts []Option[removeCommand]
	for _, h := range hosts {
		opts = append(opts, Option[removeCommand]{h, removeCommand{host: h}})
	}
	opts = append(opts, Option[removeCommand]{"Cancel", removeCommand{cancel: true}})
	cmd, err := Choose(c.screen, "SELECT SERVER TO REMOVE FROM "+strings.ToUpper(group), opts)
	if err != nil {
		return err
	}
	if cmd.cancel {
		return nil
	}
	if err := c.reg.RemoveHost(group, cmd.host); err != nil {
		c.screen.Printf("Error saving configuration: %v\n", err)
	} else {
		c.screen.Printf("Server '%s' removed from %s\n", cmd.host, group)
	}
	return c.screen.Pause("\nPress Enter to continue...")
}

func (c *Controller) renameGroup(group string) (bool, error) {
	newName, err := c.screen.ReadLine(fmt.Sprintf("\nEnter new name for %s (leave blank to cancel): ", group))
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(newName) == "" {
		c.screen.Printf("Rename cancelled\n")
		return false, c.screen.Pause("\nPress Enter to continue...")
	}
	switch renameErr := c.reg.RenameGroup(group, newName); {
	case errors.Is(renameErr, groups.ErrDuplicateGroup):
		c.screen.Printf("Group '%s' already exists\n", newName)
		return false, c.screen.Pause("\nPress Enter to continue...")
	case renameErr != nil:
		// The rename is applied in memory even when the write failed.
		c.screen.Printf("Error saving configuration: %v\n", renameErr)
		return true, c.screen.Pause("\nPress Enter to continue...")
	default:
		c.screen.Printf("Group renamed from '%s' to '%s'\n", group, newName)
		return true, c.screen.Pause("\nPress Enter to continue...")
	}
}

func (c *Controller) deleteGroup(group string) (bool, error) {
	confirmed, err := c.screen.Confirm(fmt.Sprintf("\nAre you sure you want to delete '%s'? (y/n): ", group))
	if err != nil {
		return false, err
	}
	if !confirmed {
		c.screen.Printf("Deletion cancelled\n")
		return false, c.screen.Pause("\nPress Enter to continue...")
	}
	if err := c.reg.DeleteGroup(group); err != nil {
		c.screen.Printf("Error saving configuration: %v\n", err)
	} else {
		c.screen.Printf("Group '%s' deleted\n", group)
	}
	return true, c.screen.Pause("\nPress Enter to continue...")
}

func (c *Controller) changeUsername() error {
	c.screen.Printf("\nCurrent username: %s\n", c.reg.Username())
	name, err := c.screen.ReadLine("Enter new username (leave blank to keep current): ")
	if err != nil {
		return err
	}
	changed, setErr := c.reg.SetUsername(name)
	switch {
	case setErr != nil:
		c.screen.Printf("Error saving configuration: %v\n", setErr)
	case changed:
		c.screen.Printf("Username changed to %s\n", c.reg.Username())
	default:
		c.screen.Printf("Username unchanged\n")
	}
	return c.screen.Pause("\nPress Enter to continue...")
}

func (c *Controller) importConfig() error {
	path, err := c.screen.ReadLine("\nEnter file path to import: ")
	if err != nil {
		return err
	}
	imported, impErr := c.store.Import(path)
	if impErr != nil {
		if os.IsNotExist(impErr) {
			c.screen.Printf("File not found: %s\n", path)
		} else {
			c.screen.Printf("Error importing configuration: %v\n", impErr)
		}
		return c.screen.Pause("\nPress Enter to continue...")
	}
	if err := c.reg.Replace(imported); err != nil {
		c.screen.Printf("Error saving configuration: %v\n", err)
	} else {
		c.screen.Printf("Configuration imported successfully\n")
	}
	return c.screen.Pause("\nPress Enter to continue...")
}

func (c *Controller) exportConfig() error {
	path, err := c.screen.ReadLine("\nEnter file path for export (or press Enter for default): ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		def, defErr := config.DefaultExportPath()
		if defErr != nil {
			c.screen.Printf("Error exporting configuration: %v\n", defErr)
			return c.screen.Pause("\nPress Enter to continue...")
		}
		path = def
	}
	if err := c.store.Export(c.reg.Config(), path); err != nil {
		c.screen.Printf("Error exporting configuration: %v\n", err)
	} else {
		c.screen.Printf("Configuration exported to %s\n", path)
	}
	return c.screen.Pause("\nPress Enter to continue...")
}

func (c *Controller) help() error {
	c.screen.Header("SSH CONNECTOR HELP")
	c.screen.Printf("\nSSH Connector allows you to organize and connect to SSH servers\n")
	c.screen.Printf("through a simple menu interface. The configuration is stored in:\n")
	c.screen.Printf("%s\n\n", c.store.Path)
	c.screen.Printf("Basic Usage:\n")
	c.screen.Printf("  - Server Groups: Organize servers into logical groups\n")
	c.screen.Printf("  - Add/Remove: Manage server groups and individual servers\n")
	c.screen.Printf("  - Connect: Select a server to establish an SSH connection\n")
	c.screen.Printf("  - Import/Export: Share configurations between systems\n\n")
	c.screen.Printf("SSH Authentication:\n")
	c.screen.Printf("  - The tool uses your system's SSH config and keys\n")
	c.screen.Printf("  - For passwordless login, set up SSH keys for your servers\n")
	c.screen.Printf("  - Edit ~/.ssh/config for advanced SSH options per host\n\n")
	c.screen.Printf("For more information, visit the GitHub repository at:\n")
	c.screen.Printf("https://github.com/sshconnector/ssh-connector\n")
	return c.screen.Pause("\nPress Enter to return to the main menu...")
}
