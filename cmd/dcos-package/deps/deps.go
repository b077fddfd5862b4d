package deps

import (
	"go.uber.org/dig"

	"github.com/dcos/dcos-package/cmd/dcos-package/rootcmd"
)

func Build() (*dig.Container, error) {
	container := dig.New()

	for _, c := range constructors() {
		if err := container.Provide(c); err != nil {
			return nil, err
		}
	}

	return container, nil
}

func constructors() []any {
	return []any{
		rootcmd.ProvideRootCmd,
		ProvideIOStreams,
		ProvideArgs,
		ProvideEnvironment,
		ProvideLogOptions,
		ProvideLogFactory,
		ProvideConfigLoader,
		ProvideFactory,
		ProvidePackageCmd,
		ProvideVersionCmd,
		ProvideSourcesCmd,
		ProvideUpdateCmd,
		ProvideDescribeCmd,
		ProvideInstallCmd,
		ProvideListCmd,
		ProvideSearchCmd,
		ProvideUninstallCmd,
		ProvideBundleCmd,
	}
}
