package constants

// DefaultLocation is the Azure region resources are created in when none is configured.
const DefaultLocation = "westeurope"

// PlaceholderImage is deployed until the CI workflow publishes the real application image.
const PlaceholderImage = "mcr.microsoft.com/azuredocs/containerapps-helloworld:latest"

// ContainerAppExtension is the az CLI extension required for container app commands.
const ContainerAppExtension = "containerapp"

// ResourceGroupPrefix prefixes the resource group created in group deployment mode.
const ResourceGroupPrefix = "rg-"

// Parameter names in the infrastructure parameters document.
const (
	ParamEnvironmentName    = "environmentName"
	ParamLocation           = "location"
	ParamWebContainerApp    = "webContainerAppName"
	ParamDatabaseUsername   = "databaseUsername"
	ParamDatabasePassword   = "databasePassword"
	ParamSessionSecret      = "sessionSecret"
	ParamWebImageName       = "webImageName"
	ParamGoogleClientID     = "googleClientId"
	ParamGoogleClientSecret = "googleClientSecret" //nolint:gosec // G101: parameter name
)

// azd environment keys holding generated secrets. With azd the parameters document only
// references them as ${KEY}; azd substitutes the values at provision time.
const (
	EnvKeyDatabasePassword   = "DATABASE_PASSWORD"    //nolint:gosec // G101: key name
	EnvKeySessionSecret      = "SESSION_SECRET"       //nolint:gosec // G101: key name
	EnvKeyGoogleClientSecret = "GOOGLE_CLIENT_SECRET" //nolint:gosec // G101: key name
)

// Deployment output names.
const (
	OutputWebURL              = "webUrl"
	OutputWebAppName          = "webContainerAppName"
	OutputResourceGroup       = "resourceGroupName"
	OutputRegistryName        = "registryName"
	OutputRegistryLoginServer = "registryLoginServer"
	OutputDatabaseProtocol    = "databaseProtocol"
	OutputDatabaseHost        = "databaseHost"
	OutputDatabaseName        = "databaseName"
	OutputDatabaseUsername    = "databaseUsername"
)

// DeployMode selects how infrastructure is deployed.
type DeployMode string

const (
	// DeployModeAzd runs "azd env new" followed by "azd provision".
	DeployModeAzd DeployMode = "azd"
	// DeployModeGroup runs a single "az deployment group create".
	DeployModeGroup DeployMode = "group"
)

// AuthApplyMode selects how identity provider credentials reach the deployed app.
type AuthApplyMode string

const (
	// AuthApplyImmediate updates the running container app's auth settings.
	AuthApplyImmediate AuthApplyMode = "immediate"
	// AuthApplyDeferred stores credentials in the parameters document for the next provision.
	AuthApplyDeferred AuthApplyMode = "deferred"
)

// PipelineMode selects how CI is wired on the published repository.
type PipelineMode string

const (
	// PipelineSecrets registers repository secrets one by one.
	PipelineSecrets PipelineMode = "secrets"
	// PipelineAzd delegates to "azd pipeline config".
	PipelineAzd PipelineMode = "azd"
)

// FailurePolicy tells the orchestrator what to do when an optional step fails.
type FailurePolicy string

const (
	// FailureSkip reports the failure and continues the run.
	FailureSkip FailurePolicy = "skip"
	// FailureAbort stops the run.
	FailureAbort FailurePolicy = "abort"
)
