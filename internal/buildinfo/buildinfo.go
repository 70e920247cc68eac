package buildinfo

const ProjectName = "spelldown"

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

const GithubURL = "https://github.com/bloops-games/spelldown"

const BotFatherURL = "https://t.me/botfather"

const Graffiti = `
               _ _      _                     
 ___ _ __  ___| | |  __| | _____      ___ __  
/ __| '_ \/ _ \ | | / _' |/ _ \ \ /\ / / '_ \ 
\__ \ |_) |  __/ | || (_| | (_) \ V  V /| | | |
|___/ .__/ \___|_|_| \__,_|\___/ \_/\_/ |_| |_|
    |_|                                       
`

const GreetingCLI = "%s %s\nspell it out loud, letter by letter\nproject: %s\n\n"
