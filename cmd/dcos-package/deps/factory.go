package deps

import (
	"github.com/dcos/dcos-package/cmd/dcos-package/bundlecmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/describecmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/installcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/listcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/searchcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/sourcescmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/uninstallcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/updatecmd"
	internalcmd "github.com/dcos/dcos-package/internal/cmd"
	"github.com/dcos/dcos-package/internal/marathon"
	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
	"github.com/dcos/dcos-package/internal/packages/packagerepository"
	"github.com/dcos/dcos-package/internal/packages/packagesource"
	"github.com/dcos/dcos-package/internal/subcommand"
)

func ProvideFactory(loader ConfigLoader, logFactory LogFactory) *DefaultFactory {
	return &DefaultFactory{
		loader:     loader,
		logFactory: logFactory,
	}
}

var (
	_ sourcescmd.SourceListerFactory  = (*DefaultFactory)(nil)
	_ updatecmd.UpdaterFactory        = (*DefaultFactory)(nil)
	_ describecmd.DescriberFactory    = (*DefaultFactory)(nil)
	_ installcmd.InstallerFactory     = (*DefaultFactory)(nil)
	_ listcmd.ListerFactory           = (*DefaultFactory)(nil)
	_ searchcmd.SearcherFactory       = (*DefaultFactory)(nil)
	_ uninstallcmd.UninstallerFactory = (*DefaultFactory)(nil)
	_ bundlecmd.BundlerFactory        = (*DefaultFactory)(nil)
)

// DefaultFactory builds the objects behind every package subcommand.
// The configuration is only read by commands that need it.
type DefaultFactory struct {
	loader     ConfigLoader
	logFactory LogFactory
}

func (f *DefaultFactory) SourceLister() (sourcescmd.SourceLister, error) {
	repo, err := f.repository()
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (f *DefaultFactory) Updater() (updatecmd.Updater, error) {
	repo, err := f.repository()
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (f *DefaultFactory) Describer() (describecmd.Describer, error) {
	repo, err := f.repository()
	if err != nil {
		return nil, err
	}
	return internalcmd.NewDescribe(repo, internalcmd.WithLog{Log: f.logFactory.Logger()}), nil
}

func (f *DefaultFactory) Searcher() (searchcmd.Searcher, error) {
	repo, err := f.repository()
	if err != nil {
		return nil, err
	}
	return internalcmd.NewSearch(repo), nil
}

func (f *DefaultFactory) Installer(
	printer packagedeploy.Printer, confirmer packagedeploy.Confirmer,
) (installcmd.Installer, error) {
	repo, err := f.repository()
	if err != nil {
		return nil, err
	}
	installer, err := f.packageInstaller(
		packagedeploy.WithPrinter{Printer: printer},
		packagedeploy.WithConfirmer{Confirmer: confirmer},
	)
	if err != nil {
		return nil, err
	}
	return internalcmd.NewInstall(repo, installer, internalcmd.WithLog{Log: f.logFactory.Logger()}), nil
}

func (f *DefaultFactory) Lister() (listcmd.Lister, error) {
	installer, err := f.packageInstaller()
	if err != nil {
		return nil, err
	}
	return internalcmd.NewList(installer), nil
}

func (f *DefaultFactory) Uninstaller() (uninstallcmd.Uninstaller, error) {
	installer, err := f.packageInstaller()
	if err != nil {
		return nil, err
	}
	return internalcmd.NewUninstall(installer, internalcmd.WithLog{Log: f.logFactory.Logger()}), nil
}

func (f *DefaultFactory) Bundler() bundlecmd.Bundler {
	return internalcmd.NewBundle(internalcmd.WithLog{Log: f.logFactory.Logger()})
}

func (f *DefaultFactory) repository() (*internalcmd.Repository, error) {
	conf, err := f.loader.Config()
	if err != nil {
		return nil, err
	}
	client, err := newHTTPClient(conf)
	if err != nil {
		return nil, err
	}

	log := f.logFactory.Logger()
	store := packagesource.NewStore(
		conf.CacheDir(),
		packagesource.WithLog{Log: log},
		packagesource.WithHTTPClient{Client: client},
		packagesource.WithValidator{Validate: packagerepository.ValidateRepository},
	)

	return internalcmd.NewRepository(conf, store, internalcmd.WithLog{Log: log}), nil
}

// packageInstaller targets the scheduler first and the local CLI second.
func (f *DefaultFactory) packageInstaller(opts ...packagedeploy.InstallerOption) (*packagedeploy.Installer, error) {
	conf, err := f.loader.Config()
	if err != nil {
		return nil, err
	}
	client, err := newHTTPClient(conf)
	if err != nil {
		return nil, err
	}

	log := f.logFactory.Logger()
	connect := func() (marathon.Client, error) {
		marathonURL, err := conf.MarathonURL()
		if err != nil {
			return nil, err
		}
		scheduler, err := marathon.NewHTTPClient(
			marathonURL,
			marathon.WithLog{Log: log},
			marathon.WithHTTPClient{Client: client},
			marathon.WithToken(conf.Core.DcosACSToken),
		)
		if err != nil {
			return nil, err
		}
		return scheduler, nil
	}
	commands := subcommand.NewStore(
		conf.SubcommandsDir(),
		subcommand.WithLog{Log: log},
		subcommand.WithHTTPClient{Client: client},
	)

	targets := []packagedeploy.Target{
		packagedeploy.NewLazyAppTarget(connect, log),
		packagedeploy.NewCLITarget(commands, log),
	}
	opts = append([]packagedeploy.InstallerOption{packagedeploy.WithLog{Log: log}}, opts...)

	return packagedeploy.NewInstaller(targets, opts...), nil
}
