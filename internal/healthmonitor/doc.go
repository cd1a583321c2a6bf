// Package healthmonitor runs three periodic probes: a
// composite probe over every registered health indicator, a quick
// language-model connectivity probe, and a resource probe over process
// memory/CPU and the resilience layer's circuit-breaker summary. It logs
// UP/DOWN transitions per named component and exposes a cumulative probe
// count plus the current per-component status map.
package healthmonitor
