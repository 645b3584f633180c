package constants

// External tools and where to get them.
const (
	ToolAz  = "az"
	ToolAzd = "azd"
	ToolGit = "git"
	ToolGh  = "gh"
	ToolNpm = "npm"

	AzInstallURL  = "https://learn.microsoft.com/cli/azure/install-azure-cli"
	AzdInstallURL = "https://aka.ms/install-azd"
	GitInstallURL = "https://git-scm.com/book/en/v2/Getting-Started-Installing-Git"
	GhInstallURL  = "https://cli.github.com/manual/installation"
	NpmInstallURL = "https://docs.npmjs.com/downloading-and-installing-node-js-and-npm"
)

// GitHubHost is the source-control host repositories are published to.
const GitHubHost = "github.com"
