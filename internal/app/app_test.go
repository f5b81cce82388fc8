package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/testutil"
	"github.com/specialistvlad/cecplan/internal/validate"
)

const tvYAML = `
hdmi_cec:
  address: 3
  physical_address: 0x1000
  osd_name: TV
  on_message:
    - destination: 0
      opcode: 0x36
`

const tvHCL = `
hdmi_cec {
  address          = 3
  physical_address = "0x1000"
  osd_name         = "TV"

  on_message {
    destination = 0
    opcode      = "0x36"
  }
}
`

const tvPlan = `# generation 5, 2 objects, 7 instructions
construct hdmicec_0 = hdmi_cec::HDMICEC()
set hdmicec_0.address(3)  # Tuner 1
set hdmicec_0.physical_address(4096)  # 1.0.0.0
set hdmicec_0.osd_name_bytes([0x54, 0x56])
construct messagetrigger_1 = hdmi_cec::MessageTrigger(hdmicec_0)
set messagetrigger_1.destination(0)  # TV
set messagetrigger_1.opcode(54)  # Standby
`

const osdNameYAML = `
hdmi_cec:
  id: tv_cec
  address: 4
  physical_address: 0x1000
  on_message:
    - trigger_id: on_give_osd_name
      opcode: 0x46
      then:
        - hdmi_cec.send:
            destination: !lambda source
            data: [0x47, 0x54, 0x56]
`

func defaultConfig() Config {
	return Config{
		LogLevel:   "debug",
		LogFormat:  "text",
		Generation: 5,
		Output:     OutputText,
		Workers:    2,
	}
}

// setupApp creates an app whose output is returned and whose logs are
// dumped when the test fails.
func setupApp(t *testing.T, cfg Config) (*App, *bytes.Buffer) {
	t.Helper()
	valid, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	logs.DumpOnFailure(t)
	return NewApp(out, logs, valid), out
}

func TestCompileTextPlan(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"tv.yaml": tvYAML,
		"tv.hcl":  tvHCL,
	})

	for _, name := range []string{"tv.yaml", "tv.hcl"} {
		t.Run(name, func(t *testing.T) {
			a, out := setupApp(t, defaultConfig())
			results, err := a.Compile(context.Background(), []string{filepath.Join(dir, name)})
			require.NoError(t, err)
			require.NoError(t, a.WritePlans(results))
			if diff := cmp.Diff(tvPlan, out.String()); diff != "" {
				t.Errorf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileDirectory(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"b/tv.yaml":  tvYAML,
		"a/osd.yaml": osdNameYAML,
		"notes.txt":  "ignored",
	})

	a, out := setupApp(t, defaultConfig())
	results, err := a.Compile(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(dir, "a", "osd.yaml"), results[0].Filename, "results follow file order")
	assert.Equal(t, filepath.Join(dir, "b", "tv.yaml"), results[1].Filename)

	require.NoError(t, a.WritePlans(results))
	assert.Contains(t, out.String(), "# file "+results[0].Filename+"\n")
	assert.Contains(t, out.String(), "\n\n# file "+results[1].Filename+"\n")
}

func TestCompileJSONPlanVerifies(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"osd.yaml": osdNameYAML})
	cfg := defaultConfig()
	cfg.Output = OutputJSON

	a, out := setupApp(t, cfg)
	results, err := a.Compile(context.Background(), []string{dir})
	require.NoError(t, err)
	require.NoError(t, a.WritePlans(results))

	require.NoError(t, plan.VerifyDocument(out.Bytes()))

	check, checkOut := setupApp(t, defaultConfig())
	require.NoError(t, check.VerifyPlan(out.Bytes()))
	assert.Equal(t, "plan is valid\n", checkOut.String())
}

func TestCompileErrors(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"bad.yaml": "hdmi_cec:\n  address: 16\n  physical_address: 0\n  bogus: 1\n",
		"bad.hcl":  "hdmi_cec {\n",
		"ok.yaml":  tvYAML,
	})

	a, _ := setupApp(t, defaultConfig())
	_, err := a.Compile(context.Background(), []string{dir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, validate.ErrInvalid))

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, filepath.Join(dir, "bad.hcl"), fileErr.Filename, "the first failing file in order")

	msg := err.Error()
	assert.Contains(t, msg, "bad.hcl: failed to parse HCL file")
	assert.Contains(t, msg, "hdmi_cec.bogus: extra keys not allowed")
	assert.Contains(t, msg, "hdmi_cec.address: value must be at most 15, got 16")
	assert.NotContains(t, msg, "ok.yaml")
}

func TestCompileGeneration(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"tv.yaml": tvYAML})
	cfg := defaultConfig()
	cfg.Generation = 3

	a, _ := setupApp(t, cfg)
	_, err := a.Compile(context.Background(), []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(schema generation 3)")
	assert.Contains(t, err.Error(), "valid keys are: id, pin, address, promiscuous_mode")
}

func TestCompileNothingFound(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"notes.txt": "x"})
	a, _ := setupApp(t, defaultConfig())

	_, err := a.Compile(context.Background(), []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no configuration files found")

	_, err = a.Compile(context.Background(), []string{filepath.Join(dir, "notes.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported file type ".txt"`)
}

func TestValidateSummary(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"osd.yaml": osdNameYAML})
	a, out := setupApp(t, defaultConfig())

	results, err := a.Validate(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Nil(t, results[0].Program)
	require.NoError(t, a.WriteSummary(results))

	want := results[0].Filename + `: valid (schema generation 5)
  hdmi_cec.id = "tv_cec"
  hdmi_cec.address = 4
  hdmi_cec.physical_address = 4096
  hdmi_cec.on_message[0].trigger_id = "on_give_osd_name"
  hdmi_cec.on_message[0].opcode = 70
  hdmi_cec.on_message[0].then[0].hdmi_cec.send.destination = !lambda source
  hdmi_cec.on_message[0].then[0].hdmi_cec.send.data = [71,84,86]
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, a.WritePlans(results), "validated results have no plan")
}

func TestMatch(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"osd.yaml": osdNameYAML})
	path := filepath.Join(dir, "osd.yaml")

	t.Run("fires and previews the reply", func(t *testing.T) {
		a, out := setupApp(t, defaultConfig())
		firings, err := a.Match(context.Background(), []string{path}, "04:46")
		require.NoError(t, err)
		require.Len(t, firings, 1)
		require.Len(t, firings[0].Sends, 1)
		require.NoError(t, firings[0].Sends[0].Err)

		a.WriteMatches("04:46", firings)
		assert.Equal(t, path+`: on_give_osd_name fires (opcode=0x46 (Give OSD Name))
  sendaction_3 sends 40:47:54:56
`, out.String())
	})

	t.Run("no trigger fires", func(t *testing.T) {
		a, out := setupApp(t, defaultConfig())
		firings, err := a.Match(context.Background(), []string{path}, "04:36")
		require.NoError(t, err)
		a.WriteMatches("04:36", firings)
		assert.Equal(t, "no trigger fires for 04:36\n", out.String())
	})

	t.Run("bad frame", func(t *testing.T) {
		a, _ := setupApp(t, defaultConfig())
		_, err := a.Match(context.Background(), []string{path}, "zz")
		require.Error(t, err)
	})
}

func TestWriteSchema(t *testing.T) {
	t.Run("whole table", func(t *testing.T) {
		a, out := setupApp(t, defaultConfig())
		require.NoError(t, a.WriteSchema(""))
		text := out.String()
		assert.Contains(t, text, "# hdmi_cec, schema generation 5\n")
		assert.Regexp(t, `(?m)^osd_name\s+scalar\s+false\s+"esphome"\s+false\s+name announced in Set OSD Name$`, text)
		assert.Regexp(t, `(?m)^on_message\s+blocks\s+false\s+-\s+false`, text)
	})

	t.Run("one field", func(t *testing.T) {
		a, out := setupApp(t, defaultConfig())
		require.NoError(t, a.WriteSchema("hdmi_cec.on_message"))
		text := out.String()
		assert.Contains(t, text, "hdmi_cec.on_message (blocks): automations run when a matching message arrives\n")
		assert.Regexp(t, `(?m)^then\s+actions`, text)
	})

	t.Run("an action", func(t *testing.T) {
		a, out := setupApp(t, defaultConfig())
		require.NoError(t, a.WriteSchema("hdmi_cec.send"))
		assert.Regexp(t, `(?m)^destination\s+scalar\s+true\s+-\s+true`, out.String())
	})

	t.Run("unknown field", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Generation = 1
		a, _ := setupApp(t, cfg)
		err := a.WriteSchema("address")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `schema generation 1: unknown field "address" in hdmi_cec`)
	})
}

func TestConvert(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"osd.yaml": osdNameYAML})
	a, out := setupApp(t, defaultConfig())

	results, err := a.Validate(context.Background(), []string{dir})
	require.NoError(t, err)
	require.NoError(t, a.Convert(results))

	converted := testutil.WriteFiles(t, map[string]string{"osd.hcl": out.String()})
	again, _ := setupApp(t, defaultConfig())
	fromHCL, err := again.Compile(context.Background(), []string{converted})
	require.NoError(t, err)
	fromYAML, err := a.Compile(context.Background(), []string{dir})
	require.NoError(t, err)

	var want, got []string
	for _, in := range fromYAML[0].Program.Instructions() {
		want = append(want, in.String())
	}
	for _, in := range fromHCL[0].Program.Instructions() {
		got = append(got, in.String())
	}
	assert.Equal(t, want, got)
}
