package ecos

// Datacenter identifies a regional deployment of the ECOS cloud. Each
// datacenter runs behind its own fixed base URL.
type Datacenter string

const (
	DatacenterCN Datacenter = "CN"
	DatacenterEU Datacenter = "EU"
	DatacenterAU Datacenter = "AU"
)

// TODO: fetch the live datacenter list from
// https://dcdn-config.weiheng-tech.com/prod/config.json instead of
// hardcoding it.
var datacenterURLs = map[Datacenter]string{
	DatacenterCN: "https://api-ecos-hu.weiheng-tech.com",
	DatacenterEU: "https://api-ecos-eu.weiheng-tech.com",
	DatacenterAU: "https://api-ecos-au.weiheng-tech.com",
}

// BaseURL returns the API base URL for the datacenter, or "" if the
// datacenter is unknown.
func (d Datacenter) BaseURL() string {
	return datacenterURLs[d]
}
