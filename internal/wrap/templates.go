package wrap

// antiTamperSnippet is the self-defense prologue. It snapshots the entry
// file (package.json main, falling back to the invocation argument),
// re-reads it on a fixed interval and aborts on any difference. It also
// refuses to start when axios request interceptors are already installed,
// then freezes and seals axios so none can be added later. Best-effort
// deterrent, not a security boundary.
const antiTamperSnippet = `(function () {
  var fs = require("fs");
  var path = require("path");
  var entry = process.argv[1];
  try {
    var pkg = JSON.parse(fs.readFileSync(path.join(process.cwd(), "package.json"), "utf8"));
    if (pkg.main) {
      entry = path.resolve(process.cwd(), pkg.main);
    }
  } catch (ignored) {}
  var snapshot;
  try {
    snapshot = fs.readFileSync(entry, "utf8");
  } catch (err) {
    process.exit(1);
  }
  setInterval(function () {
    try {
      if (fs.readFileSync(entry, "utf8") !== snapshot) {
        process.exit(1);
      }
    } catch (err) {
      process.exit(1);
    }
  }, {{.IntervalMillis}});
  try {
    var axios = require("axios");
    if (axios.interceptors.request.handlers.length > 0) {
      process.exit(1);
    }
    Object.freeze(axios);
    Object.seal(axios);
  } catch (ignored) {}
})();
`

// passwordGateTemplate wraps the payload in an interactive prompt. The
// expected password travels base64-encoded; this is access gating, not
// secrecy. On mismatch the process exits nonzero without touching the
// payload.
const passwordGateTemplate = `(function () {
  var readline = require("readline");
  var expected = Buffer.from("{{.EncodedPassword}}", "base64").toString("utf8");
  var rl = readline.createInterface({ input: process.stdin, output: process.stdout });
  console.log("{{.Banner}}");
  rl.question("Password: ", function (answer) {
    rl.close();
    if (answer !== expected) {
      console.error("Access denied.");
      process.exit(1);
      return;
    }
    (function () {
{{.Payload}}
    })();
  });
})();
`
