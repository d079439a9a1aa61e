package patchkit

// Patch is a marker-guarded text substitution applied to one file of the
// installed PyHula library. Patches are data: the patcher control flow
// in patcher.go never knows what any individual fix does.
//
// Application is idempotent: a file already containing Marker is left
// alone. A file whose Anchor is missing (different library build) is
// reported as skipped without failing the other patches.
type Patch struct {
	// Name identifies the patch in CLI output and results.
	Name string

	// File is the target path relative to the installed package directory.
	File string

	// Marker is the comment the Replacement embeds. Its presence means
	// the patch is already applied.
	Marker string

	// Anchor is the exact original text the patch replaces. Replacement
	// indentation is written against the anchor's known position in the
	// shipped library sources.
	Anchor string

	// Replacement is substituted for the first occurrence of Anchor.
	Replacement string
}

// Patches is the known fix set for the vendored PyHula build, in
// application order.
var Patches = []Patch{
	{
		Name:   "mavlink-header-pack",
		File:   "pypack/fylo/mavlink.py",
		Marker: "# PYHULA_PATCH_APPLIED",
		Anchor: `return struct.pack('<BBBBBB', self.magic, self.length, self.seq, self.srcSystem, self.srcComponent, self.msgId)`,
		Replacement: `# PYHULA_PATCH_APPLIED: pack with explicit integer conversion
        try:
            return struct.pack('<BBBBBB',
                               int(self.magic), int(self.length), int(self.seq),
                               int(self.srcSystem), int(self.srcComponent), int(self.msgId))
        except (ValueError, TypeError) as exc:
            print("MAVLink header pack warning: %s, using defaults" % exc)
            return struct.pack('<BBBBBB', 254, 0, 0, 255, 190, 0)`,
	},
	{
		Name:   "udp-bind-fallback",
		File:   "pypack/system/taskcontroller.py",
		Marker: "# PYHULA_UDP_PATCH_APPLIED",
		Anchor: `self.sock.bind(('', self.listen_port))`,
		Replacement: `# PYHULA_UDP_PATCH_APPLIED: fall back to localhost when the wildcard bind is refused
        try:
            self.sock.bind(('', self.listen_port))
        except OSError:
            try:
                self.sock.bind(('127.0.0.1', self.listen_port))
            except OSError:
                self.sock.bind(('127.0.0.1', 0))`,
	},
	{
		Name:   "userapi-connect-errors",
		File:   "userapi.py",
		Marker: "# PYHULA_USERAPI_PATCH_APPLIED",
		Anchor: `return self._control_server.connect(server_ip)`,
		Replacement: `# PYHULA_USERAPI_PATCH_APPLIED: surface connection problems instead of raising
        try:
            result = self._control_server.connect(server_ip)
            if not result:
                print("Connection failed - no response from drone at %s" % server_ip)
            return result
        except Exception as exc:
            print("Connection error: %s" % exc)
            print("Check that the drone is powered on and this computer")
            print("is joined to the drone's WiFi network.")
            return False`,
	},
}
