// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"

	"github.com/scadalink/iec104proxy/asdu"
)

// FileConfig is the on-disk description of a proxy endpoint: the remote
// peer to dial, optional TLS material, and the APCI/application-layer
// parameters.
type FileConfig struct {
	RemoteServer string
	TLSCertFile  string
	TLSKeyFile   string
	TLSCAFile    string

	// StationAddr is the common address this endpoint answers for.
	StationAddr asdu.CommonAddr

	Config Config
	Params asdu.Params
}

// LoadConfigFile reads an .ini file shaped like:
//
//	[remote]
//	server = tcp://192.0.2.10:2404
//	tls_cert =
//	tls_key =
//	tls_ca =
//
//	[apci]
//	k = 12
//	w = 8
//	t0 = 30
//	t1 = 15
//	t2 = 10
//	t3 = 20
//
//	[applayer]
//	cause_size = 2
//	common_addr_size = 2
//	info_obj_addr_size = 3
//	originator_address = 0
//	station_addr = 1
func LoadConfigFile(path string) (*FileConfig, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cs104: load config file: %w", err)
	}

	fc := &FileConfig{
		StationAddr: 1,
		Config:      DefaultConfig(),
		Params:      *asdu.ParamsWide,
	}

	remote := f.Section("remote")
	fc.RemoteServer = remote.Key("server").String()
	fc.TLSCertFile = remote.Key("tls_cert").String()
	fc.TLSKeyFile = remote.Key("tls_key").String()
	fc.TLSCAFile = remote.Key("tls_ca").String()

	apci := f.Section("apci")
	if v, err := apci.Key("k").Int(); err == nil && v > 0 {
		fc.Config.SendUnAckLimitK = uint16(v)
	}
	if v, err := apci.Key("w").Int(); err == nil && v > 0 {
		fc.Config.RecvUnAckLimitW = uint16(v)
	}
	if v, err := apci.Key("t0").Int(); err == nil && v > 0 {
		fc.Config.ConnectTimeout0 = time.Duration(v) * time.Second
	}
	if v, err := apci.Key("t1").Int(); err == nil && v > 0 {
		fc.Config.SendUnAckTimeout1 = time.Duration(v) * time.Second
	}
	if v, err := apci.Key("t2").Int(); err == nil && v > 0 {
		fc.Config.RecvUnAckTimeout2 = time.Duration(v) * time.Second
	}
	if v, err := apci.Key("t3").Int(); err == nil && v > 0 {
		fc.Config.IdleTimeout3 = time.Duration(v) * time.Second
	}
	if err := fc.Config.Valid(); err != nil {
		return nil, fmt.Errorf("cs104: invalid [apci] section: %w", err)
	}

	app := f.Section("applayer")
	if v, err := app.Key("cause_size").Int(); err == nil && v > 0 {
		fc.Params.CauseSize = v
	}
	if v, err := app.Key("common_addr_size").Int(); err == nil && v > 0 {
		fc.Params.CommonAddrSize = v
	}
	if v, err := app.Key("info_obj_addr_size").Int(); err == nil && v > 0 {
		fc.Params.InfoObjAddrSize = v
	}
	if v, err := app.Key("originator_address").Int(); err == nil && v >= 0 {
		fc.Params.OrigAddress = asdu.OriginAddr(v)
	}
	if v, err := app.Key("station_addr").Int(); err == nil && v > 0 {
		fc.StationAddr = asdu.CommonAddr(v)
	}
	if fc.Params.InfoObjTimeZone == nil {
		fc.Params.InfoObjTimeZone = time.UTC
	}
	if err := fc.Params.Valid(); err != nil {
		return nil, fmt.Errorf("cs104: invalid [applayer] section: %w", err)
	}

	return fc, nil
}
