// Package projects answers the platform-side questions the gateway asks
// Kubernetes: which projects exist and whether a caller is a cluster admin.
package projects

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// ResolveKubeconfig returns the kubeconfig path to use, or "" for the
// in-cluster config. It tries, in order: explicit, $KUBECONFIG and
// ~/.kube/config, skipping paths that do not name a file.
func ResolveKubeconfig(explicit string) string {
	candidates := []string{explicit, os.Getenv("KUBECONFIG")}
	if home := homedir.HomeDir(); home != "" {
		candidates = append(candidates, filepath.Join(home, ".kube", "config"))
	}

	for _, p := range candidates {
		if p == "" {
			continue
		}
		stat, err := os.Stat(p)
		if err != nil || stat.IsDir() {
			continue
		}
		return p
	}
	return ""
}

// RESTConfig builds a client config from kubeconfig, falling back to the
// in-cluster config when no kubeconfig file is found.
func RESTConfig(kubeconfig string) (*rest.Config, error) {
	path := ResolveKubeconfig(kubeconfig)
	if path == "" {
		cfg, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("loading in-cluster config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := clientcmd.BuildConfigFromFlags("", path)
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig %s: %w", path, err)
	}
	return cfg, nil
}

// NewClientset connects to the cluster described by kubeconfig.
func NewClientset(kubeconfig string) (kubernetes.Interface, error) {
	cfg, err := RESTConfig(kubeconfig)
	if err != nil {
		return nil, err
	}
	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating kubernetes client: %w", err)
	}
	return cs, nil
}
