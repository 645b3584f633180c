package constants

// Template files, relative to the project root.
const (
	ReadmeFile         = "README.md"
	EnvExampleFile     = ".env.example"
	EnvFile            = ".env"
	PackageJSONFile    = "package.json"
	WorkflowFile       = ".github/workflows/deploy.yml"
	ParametersFile     = "infra/main.parameters.json"
	ResolvedParamsFile = "infra/main-replaced.parameters.json"
	TemplateFile       = "infra/main.bicep"
	LicenseFile        = "LICENSE.md"
	TemplateInitDir    = "remix.init"
	GitDir             = ".git"
	GitignoreFile      = ".gitignore"
	AzureEnvDir        = ".azure"
)

// SecretPaths hold generated secrets and are kept out of the published repository.
var SecretPaths = []string{EnvFile, AzureEnvDir, ResolvedParamsFile}

// TemplateName is the placeholder project name that appears throughout the template.
const TemplateName = "chiptune-stack-template"

// DefaultAppNameMaxLength caps the normalized application name before any suffix is appended.
const DefaultAppNameMaxLength = 12

// Environment file keys.
const (
	EnvSessionSecret  = "SESSION_SECRET"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvShadowDatabase = "SHADOW_DATABASE_URL"
)

// SetupScript is the npm script run once the project is ready.
const SetupScript = "setup"

// InitialCommitMessage is the message of the first commit in the published repository.
const InitialCommitMessage = "Initial commit"
